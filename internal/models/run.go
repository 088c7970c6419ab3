package models

import (
	"fmt"
	"time"
)

// RunTrack is one persisted row of a [TransferRun].
type RunTrack struct {
	Position int
	Track    Track
	Status   ItemStatus
	VideoID  string
	Error    string
}

// TransferRun records what a single like transfer did.
//
// It is written once the run finishes and never read back as library state.
type TransferRun struct {
	id         string
	sequence   int
	startedAt  time.Time
	finishedAt *time.Time
	reportPath string
	imported   int
	notFound   int
	errored    int
	pending    int
	tracks     []RunTrack
	createdAt  time.Time
	updatedAt  time.Time
}

var _ Model = (*TransferRun)(nil)

// NewTransferRun creates an unfinished run starting at startedAt.
func NewTransferRun(sequence int, startedAt time.Time) *TransferRun {
	now := time.Now()
	return &TransferRun{
		sequence:  sequence,
		startedAt: startedAt,
		createdAt: now,
		updatedAt: now,
	}
}

// Finish copies the counts and per-track rows of outcome into the run.
func (r *TransferRun) Finish(outcome *TransferOutcome, finishedAt time.Time) {
	r.finishedAt = &finishedAt
	r.imported = len(outcome.Imported)
	r.notFound = len(outcome.NotFound)
	r.errored = len(outcome.Errored)
	r.pending = len(outcome.Pending)

	r.tracks = make([]RunTrack, len(outcome.Results))
	for i, res := range outcome.Results {
		r.tracks[i] = RunTrack{
			Position: i,
			Track:    res.Track,
			Status:   res.Status,
			VideoID:  res.VideoID,
			Error:    res.Error(),
		}
	}
}

func (r *TransferRun) ID() string {
	return r.id
}

func (r *TransferRun) Sequence() int {
	return r.sequence
}

func (r *TransferRun) StartedAt() time.Time {
	return r.startedAt
}

func (r *TransferRun) FinishedAt() *time.Time {
	return r.finishedAt
}

func (r *TransferRun) ReportPath() string {
	return r.reportPath
}

func (r *TransferRun) Imported() int {
	return r.imported
}

func (r *TransferRun) NotFound() int {
	return r.notFound
}

func (r *TransferRun) Errored() int {
	return r.errored
}

func (r *TransferRun) Pending() int {
	return r.pending
}

func (r *TransferRun) Tracks() []RunTrack {
	return r.tracks
}

func (r *TransferRun) CreatedAt() time.Time {
	return r.createdAt
}

func (r *TransferRun) UpdatedAt() time.Time {
	return r.updatedAt
}

func (r *TransferRun) SetID(id string) {
	r.id = id
}

func (r *TransferRun) SetSequence(seq int) {
	r.sequence = seq
}

func (r *TransferRun) SetReportPath(p string) {
	r.reportPath = p
}

func (r *TransferRun) SetUpdatedAt(t time.Time) {
	r.updatedAt = t
}

func (r *TransferRun) SetCreatedAt(t time.Time) {
	r.createdAt = t
}

func (r *TransferRun) SetTracks(t []RunTrack) {
	r.tracks = t
}

// SetCounts restores counts loaded from storage.
func (r *TransferRun) SetCounts(imported, notFound, errored, pending int) {
	r.imported, r.notFound, r.errored, r.pending = imported, notFound, errored, pending
}

// SetFinishedAt restores the finish time loaded from storage.
func (r *TransferRun) SetFinishedAt(t *time.Time) {
	r.finishedAt = t
}

// Total returns the number of tracks the run covered.
func (r *TransferRun) Total() int {
	return r.imported + r.notFound + r.errored + r.pending
}

// Validate checks the run's invariants.
func (r *TransferRun) Validate() error {
	if r.startedAt.IsZero() {
		return fmt.Errorf("run start time is required")
	}
	if r.finishedAt != nil && r.finishedAt.Before(r.startedAt) {
		return fmt.Errorf("run finished before it started")
	}
	if len(r.tracks) > 0 && len(r.tracks) != r.Total() {
		return fmt.Errorf("run has %d track rows but counts sum to %d", len(r.tracks), r.Total())
	}
	return nil
}
