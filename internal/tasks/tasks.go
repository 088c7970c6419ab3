// package tasks implements the library reconciliation between Yandex Music and YouTube Music.
//
// The core abstraction is PlaylistEngine, which wires the exporter, importer, coverage index and
// distributor to the two catalogs. Operations emit progress updates via channels for non-blocking
// status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// TransferResult contains all data from a liked-track transfer.
type TransferResult struct {
	Export     *ExportResult
	Tracks     []models.Track // tracks in the order they were imported (oldest first)
	Outcome    *models.TransferOutcome
	StartedAt  time.Time
	FinishedAt time.Time
}

// PlaylistEngine orchestrates both reconciliation paths:
// transfer (export, reverse, import) and organization (collect, cover, distribute).
type PlaylistEngine struct {
	source   SourceCatalog
	target   TargetCatalog
	logger   *log.Logger
	coverage CoverageOptions
}

// NewPlaylistEngine creates a new PlaylistEngine. source may be nil for organization-only use.
func NewPlaylistEngine(source SourceCatalog, target TargetCatalog, logger *log.Logger, coverage CoverageOptions) *PlaylistEngine {
	return &PlaylistEngine{
		source:   source,
		target:   target,
		logger:   logger,
		coverage: coverage,
	}
}

func (e *PlaylistEngine) requireTarget() error {
	if e.target == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

// TransferLikes exports the source likes, reverses them to oldest first and likes each in the target.
//
// On cancellation the partial result is returned together with ctx.Err().
func (e *PlaylistEngine) TransferLikes(ctx context.Context, progress chan<- ProgressUpdate) (*TransferResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: Yandex Music service not initialized", shared.ErrServiceUnavailable)
	}
	if err := e.requireTarget(); err != nil {
		return nil, err
	}

	result := &TransferResult{StartedAt: time.Now()}

	sendProgress(progress, fetchLikedUpdate(-1))
	refs, err := e.source.LikedTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch liked tracks: %w", err)
	}
	sendProgress(progress, fetchLikedUpdate(len(refs)))

	export, err := NewExporter(e.source, e.logger).Export(ctx, refs, progress)
	result.Export = export
	if err != nil {
		result.FinishedAt = time.Now()
		return result, err
	}

	result.Tracks = OldestFirst(export.Tracks)
	result.Outcome, err = NewImporter(e.target, e.logger).ImportAll(ctx, result.Tracks, progress)
	result.FinishedAt = time.Now()
	return result, err
}

// CollectPlaylists fetches every library playlist except excluded ones, plus the liked playlist.
//
// Any fetch failure aborts: coverage computed from a partial set would be wrong.
func (e *PlaylistEngine) CollectPlaylists(ctx context.Context, progress chan<- ProgressUpdate) ([]models.PlaylistSnapshot, error) {
	if err := e.requireTarget(); err != nil {
		return nil, err
	}

	sendProgress(progress, fetchPlaylistsUpdate(-1))
	summaries, err := e.target.LibraryPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	wanted := make([]models.PlaylistSummary, 0, len(summaries)+1)
	for _, s := range summaries {
		if e.coverage.excluded(s.ID) {
			continue
		}
		wanted = append(wanted, s)
	}
	if !slices.ContainsFunc(wanted, func(s models.PlaylistSummary) bool { return s.ID == e.coverage.likedID() }) {
		wanted = append(wanted, models.PlaylistSummary{ID: e.coverage.likedID(), Title: "Liked Music"})
	}
	sendProgress(progress, fetchPlaylistsUpdate(len(wanted)))

	snapshots := make([]models.PlaylistSnapshot, 0, len(wanted))
	for i, s := range wanted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sendProgress(progress, fetchPlaylistUpdate(i+1, len(wanted), s))
		snapshot, err := e.target.Playlist(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch playlist %s (%s): %w", s.Title, s.ID, err)
		}
		if snapshot.ID == "" {
			snapshot.ID = s.ID
		}
		snapshots = append(snapshots, *snapshot)
	}
	return snapshots, nil
}

// Orphans returns the liked tracks that appear in no other playlist.
func (e *PlaylistEngine) Orphans(ctx context.Context, progress chan<- ProgressUpdate) ([]models.PlaylistEntry, error) {
	snapshots, err := e.CollectPlaylists(ctx, progress)
	if err != nil {
		return nil, err
	}

	uncovered, err := Uncovered(snapshots, e.coverage)
	if err != nil {
		return nil, err
	}

	liked := 0
	for _, s := range snapshots {
		if s.ID == e.coverage.likedID() {
			liked = len(s.Tracks)
		}
	}
	sendProgress(progress, coverageUpdate(len(uncovered), liked))
	return uncovered, nil
}

// BuildArtistMap derives an artist map from the current library: every playlist
// other than the liked and excluded ones, with its sorted artist set.
func (e *PlaylistEngine) BuildArtistMap(ctx context.Context, progress chan<- ProgressUpdate) (*models.ArtistPlaylistMap, error) {
	if err := e.requireTarget(); err != nil {
		return nil, err
	}

	sendProgress(progress, fetchPlaylistsUpdate(-1))
	summaries, err := e.target.LibraryPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	wanted := slices.DeleteFunc(slices.Clone(summaries), func(s models.PlaylistSummary) bool {
		return s.ID == e.coverage.likedID() || e.coverage.excluded(s.ID)
	})
	sendProgress(progress, fetchPlaylistsUpdate(len(wanted)))

	titles := make(map[string]int, len(wanted))
	for _, s := range wanted {
		titles[s.Title]++
	}

	entries := make([]models.ArtistPlaylist, 0, len(wanted))
	for i, s := range wanted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		snapshot, err := e.target.Playlist(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch playlist %s (%s): %w", s.Title, s.ID, err)
		}

		// Map keys are titles, so playlists sharing a title are told apart by id.
		title := s.Title
		if titles[title] > 1 {
			title = fmt.Sprintf("%s (%s)", s.Title, s.ID)
		}

		artists := snapshot.Artists()
		entries = append(entries, models.NewArtistPlaylist(title, s.ID, artists))
		sendProgress(progress, buildMapUpdate(i+1, len(wanted), s.Title, len(artists)))
	}
	return models.NewArtistPlaylistMap(entries...), nil
}

// PlanOrphans computes the distribution plan for the current orphans without changing anything.
func (e *PlaylistEngine) PlanOrphans(ctx context.Context, m *models.ArtistPlaylistMap, progress chan<- ProgressUpdate) ([]PlaylistBatch, error) {
	if m.Len() == 0 {
		return nil, fmt.Errorf("%w: artist map has no playlists", shared.ErrInvalidArtistMap)
	}

	orphans, err := e.Orphans(ctx, progress)
	if err != nil {
		return nil, err
	}
	return PlanDistribution(m, orphans), nil
}

// Distribute adds every orphan to the playlists whose artist set contains its first artist.
func (e *PlaylistEngine) Distribute(ctx context.Context, m *models.ArtistPlaylistMap, progress chan<- ProgressUpdate) (*DistributionResult, error) {
	plan, err := e.PlanOrphans(ctx, m, progress)
	if err != nil {
		return nil, err
	}
	return NewDistributor(e.target, e.logger).Apply(ctx, plan, progress)
}

// PlaylistArtists returns the sorted artist set of one playlist.
func (e *PlaylistEngine) PlaylistArtists(ctx context.Context, playlistID string) (*models.PlaylistSnapshot, []string, error) {
	if err := e.requireTarget(); err != nil {
		return nil, nil, err
	}

	snapshot, err := e.target.Playlist(ctx, playlistID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", shared.ErrPlaylistNotFound, playlistID, err)
	}
	return snapshot, snapshot.Artists(), nil
}

// ResolvePlaylist finds a library playlist by id or title.
//
// An exact id or title wins; otherwise the closest fuzzy title match is used.
func (e *PlaylistEngine) ResolvePlaylist(ctx context.Context, ref string) (models.PlaylistSummary, error) {
	if err := e.requireTarget(); err != nil {
		return models.PlaylistSummary{}, err
	}

	summaries, err := e.target.LibraryPlaylists(ctx)
	if err != nil {
		return models.PlaylistSummary{}, fmt.Errorf("failed to list playlists: %w", err)
	}
	return MatchPlaylist(summaries, ref)
}

// MatchPlaylist picks the summary whose id or title equals ref, falling back to a fuzzy title match.
func MatchPlaylist(summaries []models.PlaylistSummary, ref string) (models.PlaylistSummary, error) {
	for _, s := range summaries {
		if s.ID == ref || s.Title == ref {
			return s, nil
		}
	}

	titles := make([]string, len(summaries))
	for i, s := range summaries {
		titles[i] = s.Title
	}

	ranks := fuzzy.RankFindNormalizedFold(ref, titles)
	if len(ranks) == 0 {
		return models.PlaylistSummary{}, fmt.Errorf("%w: no playlist matches %q", shared.ErrPlaylistNotFound, ref)
	}
	sort.Sort(ranks)
	return summaries[ranks[0].OriginalIndex], nil
}
