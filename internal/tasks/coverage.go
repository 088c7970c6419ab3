package tasks

import (
	"fmt"
	"slices"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
)

// CoverageOptions names the liked playlist and the playlists that never count as coverage.
//
// Zero values fall back to [models.LikedSongsPlaylistID] and [models.SystemPlaylistID].
type CoverageOptions struct {
	LikedID  string
	Excluded []string
}

func (o CoverageOptions) likedID() string {
	if o.LikedID == "" {
		return models.LikedSongsPlaylistID
	}
	return o.LikedID
}

func (o CoverageOptions) excluded(id string) bool {
	if o.Excluded == nil {
		return id == models.SystemPlaylistID
	}
	return slices.Contains(o.Excluded, id)
}

// CoveredIDs returns the union of video ids across every playlist that is neither the liked playlist nor excluded.
func CoveredIDs(playlists []models.PlaylistSnapshot, opts CoverageOptions) map[string]struct{} {
	covered := make(map[string]struct{})
	for _, pl := range playlists {
		if pl.ID == opts.likedID() || opts.excluded(pl.ID) {
			continue
		}
		for _, entry := range pl.Tracks {
			if entry.VideoID != "" {
				covered[entry.VideoID] = struct{}{}
			}
		}
	}
	return covered
}

// Uncovered returns the liked playlist entries that appear in no other playlist, in liked order.
//
// Entries without a video id are ignored. A missing liked playlist is an error.
func Uncovered(playlists []models.PlaylistSnapshot, opts CoverageOptions) ([]models.PlaylistEntry, error) {
	idx := slices.IndexFunc(playlists, func(pl models.PlaylistSnapshot) bool {
		return pl.ID == opts.likedID()
	})
	if idx < 0 {
		return nil, fmt.Errorf("%w: liked playlist %s", shared.ErrPlaylistNotFound, opts.likedID())
	}

	covered := CoveredIDs(playlists, opts)
	uncovered := make([]models.PlaylistEntry, 0)
	for _, entry := range playlists[idx].Tracks {
		if entry.VideoID == "" {
			continue
		}
		if _, ok := covered[entry.VideoID]; !ok {
			uncovered = append(uncovered, entry)
		}
	}
	return uncovered, nil
}
