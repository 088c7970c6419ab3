// Package tasks reconciles a Yandex Music library with YouTube Music, with real-time progress reporting.
//
// # Components
//
//  1. [SelectBest] : picks one search result per track (top result, then exact title, then first usable)
//  2. [Exporter] : resolves the Yandex likes feed into ordered tracks, skipping entries that fail
//  3. [Importer] : searches, selects and likes each track, classifying it as imported, not_found or errored
//  4. [Uncovered] : liked tracks that appear in no other playlist (a pure function over snapshots)
//  5. [PlanDistribution] / [Distributor] : groups orphans by first artist and batch-adds them to playlists
//
// # Orchestration
//
// [PlaylistEngine] wires the components to a [SourceCatalog] and a [TargetCatalog]:
//   - transfer path: [PlaylistEngine.TransferLikes] exports, applies [OldestFirst] and imports
//   - organization path: [PlaylistEngine.Orphans], [PlaylistEngine.BuildArtistMap], [PlaylistEngine.Distribute]
//
// All calls are sequential. Cancellation is checked between items and partial results are returned with ctx.Err().
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
