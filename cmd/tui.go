package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/desertthunder/ymx/internal/formatter"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/desertthunder/ymx/internal/tasks"
	"github.com/desertthunder/ymx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive menu.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireYouTube(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(filepath.Join(r.config.Logging.Dir, "ymx-tui.log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	if err := ui.Run(ctx, r.menuActions()); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// menuActions lists the interactive menu entries in display order.
func (r *Runner) menuActions() []ui.Action {
	return []ui.Action{
		{
			Title:       "List playlists",
			Description: "Library playlists on YouTube Music",
			Run:         r.menuListPlaylists,
		},
		{
			Title:       "Get playlist artists",
			Description: "Artists of one playlist, by id or title",
			Prompt:      "Playlist id or title",
			Run:         r.menuPlaylistArtists,
		},
		{
			Title:       "Transfer tracks from Yandex Music to YouTube Music",
			Description: "Like every Yandex liked track on YouTube Music, oldest first",
			Confirm:     true,
			Run:         r.menuTransfer,
		},
		{
			Title:       "Get tracks from liked playlist",
			Description: "Liked tracks that are in no other playlist",
			Run:         r.menuOrphans,
		},
		{
			Title:       "Print tracks to file",
			Description: fmt.Sprintf("Write orphaned liked tracks to %s", r.config.Library.OrphansPath),
			Run:         r.menuWriteOrphans,
		},
		{
			Title:       "Update playlist map",
			Description: fmt.Sprintf("Rebuild %s from the library", r.config.Library.ArtistMap),
			Confirm:     true,
			Run:         r.menuUpdateMap,
		},
		{
			Title:       "Distribute tracks by playlists",
			Description: "Add orphaned liked tracks to the playlists of their artists",
			Confirm:     true,
			Run:         r.menuDistribute,
		},
	}
}

func (r *Runner) menuListPlaylists(ctx context.Context, _ string, progress chan<- tasks.ProgressUpdate) (string, error) {
	if err := r.requireYouTube(); err != nil {
		return "", err
	}
	playlists, err := r.youtube.LibraryPlaylists(ctx)
	if err != nil {
		return "", err
	}
	return string(formatter.PlaylistsToText(playlists)), nil
}

func (r *Runner) menuPlaylistArtists(ctx context.Context, ref string, _ chan<- tasks.ProgressUpdate) (string, error) {
	summary, artists, err := r.playlistArtists(ctx, ref)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (%s)\n\n%s", summary.Title, summary.ID, strings.Join(artists, "\n")), nil
}

func (r *Runner) menuTransfer(ctx context.Context, _ string, progress chan<- tasks.ProgressUpdate) (string, error) {
	summary, err := r.transferLikes(ctx, "", formatter.FormatJSON, progress)
	if summary == nil {
		return "", err
	}
	return transferText(summary), err
}

func (r *Runner) menuOrphans(ctx context.Context, _ string, progress chan<- tasks.ProgressUpdate) (string, error) {
	if err := r.requireYouTube(); err != nil {
		return "", err
	}
	orphans, err := r.engine.Orphans(ctx, progress)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d liked tracks are in no other playlist\n\n", len(orphans))
	for _, o := range orphans {
		fmt.Fprintf(&b, "%s\n", o.Track().String())
	}
	return b.String(), nil
}

func (r *Runner) menuWriteOrphans(ctx context.Context, _ string, progress chan<- tasks.ProgressUpdate) (string, error) {
	orphans, path, err := r.writeOrphans(ctx, "", progress)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d tracks written to %s", len(orphans), path), nil
}

func (r *Runner) menuUpdateMap(ctx context.Context, _ string, progress chan<- tasks.ProgressUpdate) (string, error) {
	m, path, err := r.updateArtistMap(ctx, "", progress)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d playlists written to %s", m.Len(), path), nil
}

func (r *Runner) menuDistribute(ctx context.Context, _ string, progress chan<- tasks.ProgressUpdate) (string, error) {
	return r.distribute(ctx, "", false, progress)
}
