package tasks

import (
	"context"

	"github.com/desertthunder/ymx/internal/models"
)

// SourceCatalog is the catalog liked tracks are exported from.
type SourceCatalog interface {
	// LikedTracks returns the likes feed, newest first.
	LikedTracks(ctx context.Context) ([]models.SourceTrackRef, error)
	// ResolveTrack fetches the metadata behind a feed entry.
	ResolveTrack(ctx context.Context, ref models.SourceTrackRef) (*models.SourceTrack, error)
}

// TargetCatalog is the catalog tracks are liked in and organized into playlists.
type TargetCatalog interface {
	Search(ctx context.Context, query, filter string) ([]models.SearchResult, error)
	RateSong(ctx context.Context, videoID string, rating models.Rating) error
	LibraryPlaylists(ctx context.Context) ([]models.PlaylistSummary, error)
	Playlist(ctx context.Context, id string) (*models.PlaylistSnapshot, error)
	AddPlaylistItems(ctx context.Context, id string, videoIDs []string) error
}
