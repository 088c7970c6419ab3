// Package repositories implements SQLite persistence for transfer history.
//
// Key Implementations:
//   - [RunRepository] : Transfer runs and their per-track rows, newest first
//
// Sequence numbers provide stable, human-readable ordering (e.g. run #7) independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
