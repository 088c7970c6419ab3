package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ymx/internal/models"
)

// ExportFailure records a feed entry that could not be resolved.
type ExportFailure struct {
	Index int
	Ref   models.SourceTrackRef
	Err   error
}

func (f ExportFailure) Error() string {
	return fmt.Sprintf("track %d (%s): %v", f.Index+1, f.Ref.ID, f.Err)
}

// ExportResult is the ordered output of [Exporter.Export].
type ExportResult struct {
	Tracks   []models.Track
	Skipped  int
	Failures []ExportFailure
}

// Exporter turns the source likes feed into ordered tracks.
type Exporter struct {
	source SourceCatalog
	logger *log.Logger
}

// NewExporter creates an exporter reading from source. logger may be nil.
func NewExporter(source SourceCatalog, logger *log.Logger) *Exporter {
	return &Exporter{source: source, logger: logger}
}

// Export resolves each ref in order. Any resolution failure skips that entry and the export continues.
//
// Cancellation is checked between entries; the partial result is returned with ctx.Err().
func (e *Exporter) Export(ctx context.Context, refs []models.SourceTrackRef, progress chan<- ProgressUpdate) (*ExportResult, error) {
	result := &ExportResult{Tracks: make([]models.Track, 0, len(refs))}
	total := len(refs)

	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		src, err := e.source.ResolveTrack(ctx, ref)
		if err == nil && src == nil {
			err = fmt.Errorf("empty track metadata")
		}
		if err != nil {
			failure := ExportFailure{Index: i, Ref: ref, Err: err}
			result.Skipped++
			result.Failures = append(result.Failures, failure)
			if e.logger != nil {
				e.logger.Warn("skipped track", "index", i+1, "id", ref.ID, "error", err)
			}
			sendProgress(progress, exportSkippedUpdate(i+1, total, err))
			continue
		}

		track := src.Track()
		result.Tracks = append(result.Tracks, track)
		sendProgress(progress, exportTrackUpdate(i+1, total, track))
	}

	if e.logger != nil {
		e.logger.Info("exported liked tracks", "exported", len(result.Tracks), "skipped", result.Skipped)
	}
	return result, nil
}

// OldestFirst returns a reversed copy of tracks.
//
// The likes feed is newest first; liking in reverse keeps the target's liked order chronological.
func OldestFirst(tracks []models.Track) []models.Track {
	out := make([]models.Track, len(tracks))
	for i, t := range tracks {
		out[len(tracks)-1-i] = t
	}
	return out
}
