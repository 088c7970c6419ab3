package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ymx/internal/formatter"
	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/playlistmap"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/desertthunder/ymx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// OrganizeOrphans writes the liked tracks that belong to no other playlist.
func (r *Runner) OrganizeOrphans(ctx context.Context, cmd *cli.Command) error {
	progress, stop := r.showProgress()
	orphans, path, err := r.writeOrphans(ctx, cmd.String("output"), progress)
	stop()
	if err != nil {
		return err
	}

	r.writePlain("\n✓ %d orphaned liked tracks written to %s\n", len(orphans), path)
	return nil
}

func (r *Runner) writeOrphans(ctx context.Context, output string, progress chan<- tasks.ProgressUpdate) ([]models.PlaylistEntry, string, error) {
	if err := r.requireYouTube(); err != nil {
		return nil, "", err
	}

	orphans, err := r.engine.Orphans(ctx, progress)
	if err != nil {
		return nil, "", err
	}

	if output == "" {
		output = r.config.Library.OrphansPath
	}
	path, err := formatter.WriteOrphans(orphans, output)
	if err != nil {
		return nil, "", err
	}
	r.logger.Info("orphans written", "path", path, "count", len(orphans))
	return orphans, path, nil
}

// OrganizeMap rebuilds the artist playlist map from the library's playlists.
func (r *Runner) OrganizeMap(ctx context.Context, cmd *cli.Command) error {
	progress, stop := r.showProgress()
	m, path, err := r.updateArtistMap(ctx, cmd.String("output"), progress)
	stop()
	if err != nil {
		return err
	}

	r.writePlain("\n✓ %d playlists written to %s\n", m.Len(), path)
	return nil
}

func (r *Runner) updateArtistMap(ctx context.Context, output string, progress chan<- tasks.ProgressUpdate) (*models.ArtistPlaylistMap, string, error) {
	if err := r.requireYouTube(); err != nil {
		return nil, "", err
	}

	m, err := r.engine.BuildArtistMap(ctx, progress)
	if err != nil {
		return nil, "", err
	}

	if output == "" {
		output = r.config.Library.ArtistMap
	}
	if err := playlistmap.Save(output, m); err != nil {
		return nil, "", err
	}
	r.logger.Info("artist map written", "path", output, "playlists", m.Len())
	return m, output, nil
}

// OrganizeDistribute adds orphaned liked tracks to the playlists listing their first artist.
//
// With --dry-run only the plan is printed. Failed batches are reported and turn into an error.
func (r *Runner) OrganizeDistribute(ctx context.Context, cmd *cli.Command) error {
	dryRun := cmd.Bool("dry-run")

	progress, stop := r.showProgress()
	text, err := r.distribute(ctx, cmd.String("map"), dryRun, progress)
	stop()

	if text != "" {
		r.writePlain("\n%s", text)
	}
	return err
}

// distribute loads the map and either plans or applies the distribution, returning a printable summary.
func (r *Runner) distribute(ctx context.Context, mapPath string, dryRun bool, progress chan<- tasks.ProgressUpdate) (string, error) {
	if err := r.requireYouTube(); err != nil {
		return "", err
	}

	if mapPath == "" {
		mapPath = r.config.Library.ArtistMap
	}
	m, err := playlistmap.Load(mapPath)
	if err != nil {
		return "", err
	}
	r.logger.Info("artist map loaded", "path", mapPath, "playlists", m.Len())

	if dryRun {
		plan, err := r.engine.PlanOrphans(ctx, m, progress)
		if err != nil {
			return "", err
		}
		return string(formatter.PlanToText(plan)), nil
	}

	result, err := r.engine.Distribute(ctx, m, progress)
	if result == nil {
		return "", err
	}

	text := string(formatter.DistributionToText(result))
	if err == nil && len(result.Failed()) > 0 {
		err = fmt.Errorf("%w: %d playlists could not be updated", shared.ErrAPIRequest, len(result.Failed()))
	}
	return text, err
}
