package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ymx/internal/models"
)

// PlaylistBatch is the set of tracks planned for one target playlist.
type PlaylistBatch struct {
	Title      string
	PlaylistID string
	VideoIDs   []string
	Tracks     []models.Track
}

// BatchResult is the outcome of sending one batch.
type BatchResult struct {
	Batch PlaylistBatch
	Added bool
	Err   error
}

// DistributionResult lists every planned batch with what happened to it, in map order.
type DistributionResult struct {
	Batches []BatchResult
}

// Added returns the number of tracks successfully added across all batches.
func (r *DistributionResult) Added() int {
	n := 0
	for _, b := range r.Batches {
		if b.Added {
			n += len(b.Batch.VideoIDs)
		}
	}
	return n
}

// Failed returns the batches whose request failed.
func (r *DistributionResult) Failed() []BatchResult {
	var failed []BatchResult
	for _, b := range r.Batches {
		if b.Err != nil {
			failed = append(failed, b)
		}
	}
	return failed
}

// PlanDistribution groups uncovered entries by the playlist whose artist set contains their first artist.
//
// One batch is produced per map entry in map order, empty ones included. Entries
// without artists never match. An entry lands in every playlist that lists its artist.
func PlanDistribution(m *models.ArtistPlaylistMap, uncovered []models.PlaylistEntry) []PlaylistBatch {
	entries := m.Entries()
	plan := make([]PlaylistBatch, 0, len(entries))

	for _, pl := range entries {
		batch := PlaylistBatch{Title: pl.Title, PlaylistID: pl.PlaylistID}
		for _, entry := range uncovered {
			artist, ok := entry.PrimaryArtist()
			if !ok || !pl.Contains(artist) {
				continue
			}
			batch.VideoIDs = append(batch.VideoIDs, entry.VideoID)
			batch.Tracks = append(batch.Tracks, entry.Track())
		}
		plan = append(plan, batch)
	}
	return plan
}

// Distributor sends planned batches to the target catalog.
type Distributor struct {
	target TargetCatalog
	logger *log.Logger
}

// NewDistributor creates a distributor writing to target. logger may be nil.
func NewDistributor(target TargetCatalog, logger *log.Logger) *Distributor {
	return &Distributor{target: target, logger: logger}
}

// Apply issues one add request per non-empty batch. A failed batch is recorded and the rest still run.
//
// Cancellation is checked between batches.
func (d *Distributor) Apply(ctx context.Context, plan []PlaylistBatch, progress chan<- ProgressUpdate) (*DistributionResult, error) {
	result := &DistributionResult{Batches: make([]BatchResult, 0, len(plan))}

	for i, batch := range plan {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		res := BatchResult{Batch: batch}
		if len(batch.VideoIDs) > 0 {
			if err := d.target.AddPlaylistItems(ctx, batch.PlaylistID, batch.VideoIDs); err != nil {
				res.Err = err
			} else {
				res.Added = true
			}
		}
		result.Batches = append(result.Batches, res)

		if d.logger != nil {
			if res.Err != nil {
				d.logger.Error("add to playlist failed", "playlist", batch.Title, "id", batch.PlaylistID, "error", res.Err)
			} else {
				d.logger.Info("distributed", "playlist", batch.Title, "id", batch.PlaylistID, "tracks", len(batch.VideoIDs))
			}
		}
		sendProgress(progress, distributeUpdate(i+1, len(plan), res))
	}
	return result, nil
}
