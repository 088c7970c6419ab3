package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ymx/internal/models"
)

// Importer likes tracks in the target catalog, one at a time.
type Importer struct {
	target TargetCatalog
	logger *log.Logger
}

// NewImporter creates an importer writing to target. logger may be nil.
func NewImporter(target TargetCatalog, logger *log.Logger) *Importer {
	return &Importer{target: target, logger: logger}
}

// ImportAll searches, selects and likes every track in order, classifying each.
//
// Every input track ends up in exactly one partition of the outcome. When ctx is
// cancelled between tracks the rest are marked pending and ctx.Err() is returned
// alongside the partial outcome.
func (im *Importer) ImportAll(ctx context.Context, tracks []models.Track, progress chan<- ProgressUpdate) (*models.TransferOutcome, error) {
	outcome := &models.TransferOutcome{}
	total := len(tracks)

	for i, track := range tracks {
		if err := ctx.Err(); err != nil {
			for _, rest := range tracks[i:] {
				outcome.Add(models.ItemResult{Track: rest, Status: models.StatusPending})
			}
			return outcome, err
		}

		res := im.importOne(ctx, track)
		outcome.Add(res)
		im.logResult(res)
		sendProgress(progress, importTrackUpdate(i+1, total, res))
	}

	return outcome, nil
}

func (im *Importer) importOne(ctx context.Context, track models.Track) models.ItemResult {
	res := models.ItemResult{Track: track}

	results, err := im.target.Search(ctx, track.Query(), models.SongsFilter)
	if err != nil {
		res.Status, res.Err = models.StatusErrored, err
		return res
	}
	if len(results) == 0 {
		res.Status = models.StatusNotFound
		return res
	}

	best, err := SelectBest(results, track)
	if err != nil {
		res.Status, res.Err = models.StatusNotFound, err
		return res
	}

	res.VideoID = best.VideoID
	res.Confidence = MatchConfidence(best, track)

	if err := im.target.RateSong(ctx, best.VideoID, models.RatingLike); err != nil {
		res.Status, res.Err = models.StatusErrored, err
		return res
	}

	res.Status = models.StatusImported
	return res
}

func (im *Importer) logResult(res models.ItemResult) {
	if im.logger == nil {
		return
	}
	switch res.Status {
	case models.StatusImported:
		if res.Confidence < WeakMatchThreshold {
			im.logger.Warn("weak match", "track", res.Track.String(), "video_id", res.VideoID, "confidence", res.Confidence)
			return
		}
		im.logger.Debug("imported", "track", res.Track.String(), "video_id", res.VideoID)
	case models.StatusNotFound:
		im.logger.Info("not found", "track", res.Track.String())
	case models.StatusErrored:
		im.logger.Error("import failed", "track", res.Track.String(), "error", res.Err)
	}
}
