package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/playlistmap"
	"github.com/desertthunder/ymx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// YandexLiked resolves and prints the liked tracks, newest first.
func (r *Runner) YandexLiked(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireYandex(); err != nil {
		return err
	}

	limit := int(cmd.Int("limit"))
	useJSON := cmd.Bool("json")

	refs, err := r.yandex.LikedTracks(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch liked tracks: %w", err)
	}
	r.logger.Info("fetched liked tracks", "count", len(refs))

	if limit > 0 && limit < len(refs) {
		refs = refs[:limit]
	}

	var progress chan<- tasks.ProgressUpdate
	stop := func() {}
	if !useJSON {
		progress, stop = r.showProgress()
	}
	result, err := tasks.NewExporter(r.yandex, r.logger).Export(ctx, refs, progress)
	stop()
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result.Tracks, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Liked tracks (%d)", len(result.Tracks)))
	for i, tr := range result.Tracks {
		r.writePlain("%d. %s\n", i+1, tr.String())
	}
	if len(result.Failures) > 0 {
		r.writePlainln("Could not resolve %d tracks:", len(result.Failures))
		for _, f := range result.Failures {
			r.writePlain("  - %s: %v\n", f.Ref.ID, f.Err)
		}
	}
	return nil
}

// YandexPlaylists lists the account's playlists.
func (r *Runner) YandexPlaylists(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireYandex(); err != nil {
		return err
	}

	playlists, err := r.yandex.Playlists(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}

	for _, pl := range playlists {
		r.writePlain("%s: %d (%d tracks)\n", pl.Title, pl.Kind, pl.TrackCount)
	}
	return nil
}

// YandexMap writes every Yandex playlist with its artists to a kind-keyed map document.
func (r *Runner) YandexMap(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireYandex(); err != nil {
		return err
	}

	output := cmd.String("output")

	playlists, err := r.yandex.Playlists(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch playlists: %w", err)
	}

	titles := make(map[string]int, len(playlists))
	for _, pl := range playlists {
		titles[pl.Title]++
	}

	entries := make([]models.ArtistPlaylist, 0, len(playlists))
	for i, pl := range playlists {
		artists, err := r.yandex.PlaylistArtists(ctx, pl.Kind)
		if err != nil {
			return fmt.Errorf("failed to fetch playlist %s (%d): %w", pl.Title, pl.Kind, err)
		}
		r.writePlain("  [%d/%d] %s: %d artists\n", i+1, len(playlists), pl.Title, len(artists))
		title := pl.Title
		if titles[title] > 1 {
			title = fmt.Sprintf("%s (%d)", pl.Title, pl.Kind)
		}
		entries = append(entries, models.NewArtistPlaylist(title, strconv.Itoa(pl.Kind), artists))
	}

	if err := playlistmap.SaveKinds(output, models.NewArtistPlaylistMap(entries...)); err != nil {
		return err
	}

	r.logger.Info("yandex playlist map written", "path", output, "playlists", len(entries))
	r.writePlain("✓ Wrote %d playlists to %s\n", len(entries), output)
	return nil
}
