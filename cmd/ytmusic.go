package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/ymx/internal/formatter"
	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/desertthunder/ymx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// YTMusicStatus checks that the proxy answers its health endpoint.
func (r *Runner) YTMusicStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireYouTube(); err != nil {
		return err
	}

	if err := r.youtube.Health(ctx); err != nil {
		return err
	}
	r.writePlain("✓ YouTube Music proxy is healthy\n")
	return nil
}

// YTMusicPlaylists lists library playlists as "title: id".
func (r *Runner) YTMusicPlaylists(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireYouTube(); err != nil {
		return err
	}

	playlists, err := r.youtube.LibraryPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}
	_, err = r.output.Write(formatter.PlaylistsToText(playlists))
	return err
}

// YTMusicArtists prints the sorted artist set of a playlist given by id or title.
func (r *Runner) YTMusicArtists(ctx context.Context, cmd *cli.Command) error {
	summary, artists, err := r.playlistArtists(ctx, cmd.String("playlist"))
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("%s (%s): %d artists", summary.Title, summary.ID, len(artists)))
	for _, a := range artists {
		r.writePlain("%s\n", a)
	}
	return nil
}

func (r *Runner) playlistArtists(ctx context.Context, ref string) (models.PlaylistSummary, []string, error) {
	if err := r.requireYouTube(); err != nil {
		return models.PlaylistSummary{}, nil, err
	}
	if ref == "" {
		return models.PlaylistSummary{}, nil, fmt.Errorf("%w: playlist id or title", shared.ErrMissingArgument)
	}

	summary, err := r.engine.ResolvePlaylist(ctx, ref)
	if err != nil {
		return models.PlaylistSummary{}, nil, err
	}
	r.logger.Debug("resolved playlist", "ref", ref, "id", summary.ID, "title", summary.Title)

	_, artists, err := r.engine.PlaylistArtists(ctx, summary.ID)
	if err != nil {
		return models.PlaylistSummary{}, nil, err
	}
	return summary, artists, nil
}

// searchReport is the JSON shape of a search: every result plus the one that would be liked.
type searchReport struct {
	Query      string                `json:"query"`
	Results    []models.SearchResult `json:"results"`
	Selected   *models.SearchResult  `json:"selected,omitempty"`
	Confidence float64               `json:"confidence,omitempty"`
}

// YTMusicSearch searches songs and shows which result a transfer would like.
func (r *Runner) YTMusicSearch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireYouTube(); err != nil {
		return err
	}

	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	r.logger.Info("searching youtube music", "query", query)

	results, err := r.youtube.Search(ctx, query, models.SongsFilter)
	if err != nil {
		return err
	}

	report := searchReport{Query: query, Results: results}
	asTrack := models.Track{Name: query}
	if best, err := tasks.SelectBest(results, asTrack); err == nil {
		report.Selected = &best
		report.Confidence = tasks.MatchConfidence(best, asTrack)
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d results:\n\n", len(results))
	for i, res := range results {
		marker := " "
		if report.Selected != nil && res.VideoID == report.Selected.VideoID && res.Title == report.Selected.Title {
			marker = "*"
		}
		r.writePlain("%s %d. %s - %s", marker, i+1, strings.Join(res.ArtistNames(), ", "), res.Title)
		if res.VideoID != "" {
			r.writePlain(" [%s]", res.VideoID)
		}
		if res.Category != "" {
			r.writePlain(" (%s)", res.Category)
		}
		r.writePlain("\n")
	}

	if report.Selected == nil {
		r.writePlainln("No result has a track id; a transfer would record this query as not found.")
	}
	return nil
}
