package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/playlistmap"
	"github.com/desertthunder/ymx/internal/shared"
	th "github.com/desertthunder/ymx/internal/testing"
)

func libraryTarget() *th.MockTarget {
	return &th.MockTarget{
		Summaries: []models.PlaylistSummary{
			{ID: "LM", Title: "Liked Music", Count: 3},
			{ID: "SE", Title: "Episodes for Later"},
			{ID: "PLrock", Title: "Rock Classics", Count: 1},
			{ID: "PL80s", Title: "80s", Count: 1},
		},
		Snapshots: map[string]*models.PlaylistSnapshot{
			"LM": {ID: "LM", Title: "Liked Music", Tracks: []models.PlaylistEntry{
				th.Entry("v1", "X", "Queen"),
				th.Entry("v2", "Y", "ABBA"),
				th.Entry("v3", "Z", "Unmapped"),
			}},
			"PLrock": {ID: "PLrock", Title: "Rock Classics", Tracks: []models.PlaylistEntry{
				th.Entry("v2", "Y", "ABBA"),
				th.Entry("r1", "Old", "Queen", "David Bowie"),
			}},
			"PL80s": {ID: "PL80s", Title: "80s", Tracks: []models.PlaylistEntry{
				th.Entry("e1", "Song", "ABBA"),
			}},
		},
	}
}

func TestPlaylistEngine_TransferLikes(t *testing.T) {
	source := &th.MockSource{
		Refs: refs("new", "broken", "old"),
		Tracks: map[string]*models.SourceTrack{
			"new": {ID: "new", Title: "Newest", Artists: []string{"A"}},
			"old": {ID: "old", Title: "Oldest", Artists: []string{"B"}},
		},
		ResolveErrs: map[string]error{"broken": errors.New("bad item")},
	}

	t.Run("exports, reverses and imports", func(t *testing.T) {
		target := &th.MockTarget{
			Results: map[string][]models.SearchResult{
				"B Oldest": {th.Song("vb", "Oldest", "Songs", "B")},
			},
		}
		engine := NewPlaylistEngine(source, target, nil, CoverageOptions{})

		result, err := engine.TransferLikes(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Export.Skipped != 1 {
			t.Errorf("expected one skipped track, got %d", result.Export.Skipped)
		}
		if len(result.Tracks) != 2 || result.Tracks[0].Name != "Oldest" || result.Tracks[1].Name != "Newest" {
			t.Errorf("expected oldest first, got %v", result.Tracks)
		}
		if !equalStrings(target.Searches, []string{"B Oldest", "A Newest"}) {
			t.Errorf("unexpected search order %v", target.Searches)
		}
		if len(result.Outcome.Imported) != 1 || len(result.Outcome.NotFound) != 1 {
			t.Errorf("unexpected outcome %+v", result.Outcome)
		}
		if result.FinishedAt.Before(result.StartedAt) {
			t.Error("finish time before start time")
		}
	})

	t.Run("liked feed failure", func(t *testing.T) {
		failing := &th.MockSource{LikedErr: shared.ErrAuthFailed}
		_, err := NewPlaylistEngine(failing, &th.MockTarget{}, nil, CoverageOptions{}).TransferLikes(context.Background(), nil)
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("missing services", func(t *testing.T) {
		if _, err := NewPlaylistEngine(nil, &th.MockTarget{}, nil, CoverageOptions{}).TransferLikes(context.Background(), nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable without source, got %v", err)
		}
		if _, err := NewPlaylistEngine(source, nil, nil, CoverageOptions{}).TransferLikes(context.Background(), nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable without target, got %v", err)
		}
	})

	t.Run("progress phases", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 20)
		engine := NewPlaylistEngine(source, &th.MockTarget{}, nil, CoverageOptions{})
		if _, err := engine.TransferLikes(context.Background(), progress); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		close(progress)

		phases := map[Phase]int{}
		for u := range progress {
			phases[u.Phase]++
		}
		if phases[FetchLiked] != 2 || phases[ExportTracks] != 3 || phases[ImportTracks] != 2 {
			t.Errorf("unexpected phase counts %v", phases)
		}
	})
}

func TestPlaylistEngine_Organize(t *testing.T) {
	t.Run("CollectPlaylists skips system playlist before fetching", func(t *testing.T) {
		target := libraryTarget()
		snapshots, err := NewPlaylistEngine(nil, target, nil, CoverageOptions{}).CollectPlaylists(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(snapshots) != 3 {
			t.Errorf("expected 3 snapshots, got %d", len(snapshots))
		}
		for _, id := range target.Fetched {
			if id == "SE" {
				t.Error("system playlist must not be fetched")
			}
		}
	})

	t.Run("CollectPlaylists fetches liked playlist when unlisted", func(t *testing.T) {
		target := libraryTarget()
		target.Summaries = target.Summaries[2:]

		snapshots, err := NewPlaylistEngine(nil, target, nil, CoverageOptions{}).CollectPlaylists(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if last := snapshots[len(snapshots)-1]; last.ID != "LM" {
			t.Errorf("expected liked playlist to be fetched last, got %s", last.ID)
		}
	})

	t.Run("CollectPlaylists aborts on fetch failure", func(t *testing.T) {
		target := libraryTarget()
		target.PlaylistErrs = map[string]error{"PL80s": shared.ErrServiceUnavailable}

		_, err := NewPlaylistEngine(nil, target, nil, CoverageOptions{}).CollectPlaylists(context.Background(), nil)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected wrapped fetch error, got %v", err)
		}
	})

	t.Run("Orphans", func(t *testing.T) {
		orphans, err := NewPlaylistEngine(nil, libraryTarget(), nil, CoverageOptions{}).Orphans(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ids := videoIDs(orphans); !equalStrings(ids, []string{"v1", "v3"}) {
			t.Errorf("expected [v1 v3], got %v", ids)
		}
	})

	t.Run("BuildArtistMap excludes reserved playlists", func(t *testing.T) {
		target := libraryTarget()
		m, err := NewPlaylistEngine(nil, target, nil, CoverageOptions{}).BuildArtistMap(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		entries := m.Entries()
		if len(entries) != 2 || entries[0].Title != "Rock Classics" || entries[1].Title != "80s" {
			t.Fatalf("unexpected entries %+v", entries)
		}
		if !equalStrings(entries[0].Artists(), []string{"ABBA", "David Bowie", "Queen"}) {
			t.Errorf("expected sorted artists, got %v", entries[0].Artists())
		}
		if entries[0].PlaylistID != "PLrock" {
			t.Errorf("unexpected id %s", entries[0].PlaylistID)
		}
		for _, id := range target.Fetched {
			if id == "LM" || id == "SE" {
				t.Errorf("reserved playlist %s must not be fetched", id)
			}
		}
	})

	t.Run("BuildArtistMap tells apart playlists sharing a title", func(t *testing.T) {
		target := libraryTarget()
		target.Summaries = append(target.Summaries, models.PlaylistSummary{ID: "PLrock2", Title: "Rock Classics"})
		target.Snapshots["PLrock2"] = &models.PlaylistSnapshot{ID: "PLrock2", Tracks: []models.PlaylistEntry{
			th.Entry("r2", "Live", "Queen"),
		}}

		m, err := NewPlaylistEngine(nil, target, nil, CoverageOptions{}).BuildArtistMap(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var titles []string
		for _, e := range m.Entries() {
			titles = append(titles, e.Title)
		}
		want := []string{"Rock Classics (PLrock)", "80s", "Rock Classics (PLrock2)"}
		if !equalStrings(titles, want) {
			t.Fatalf("expected titles %v, got %v", want, titles)
		}

		data, err := playlistmap.Marshal(m)
		if err != nil {
			t.Fatalf("failed to encode map: %v", err)
		}
		loaded, err := playlistmap.Parse(data)
		if err != nil {
			t.Fatalf("failed to load encoded map: %v\n%s", err, data)
		}
		if e, ok := loaded.Lookup("Rock Classics (PLrock2)"); !ok || e.PlaylistID != "PLrock2" {
			t.Errorf("unexpected entry %+v", e)
		}
	})

	t.Run("Distribute", func(t *testing.T) {
		target := libraryTarget()
		m := models.NewArtistPlaylistMap(
			models.NewArtistPlaylist("Rock", "PLrock", []string{"Queen"}),
			models.NewArtistPlaylist("80s", "PL80s", []string{"Queen", "ABBA"}),
		)

		result, err := NewPlaylistEngine(nil, target, nil, CoverageOptions{}).Distribute(context.Background(), m, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(target.AddCalls) != 2 {
			t.Fatalf("expected 2 add calls, got %+v", target.AddCalls)
		}
		for _, call := range target.AddCalls {
			if !equalStrings(call.VideoIDs, []string{"v1"}) {
				t.Errorf("expected only orphan v1 in %s, got %v", call.PlaylistID, call.VideoIDs)
			}
		}
		if result.Added() != 2 {
			t.Errorf("expected 2 additions, got %d", result.Added())
		}
	})

	t.Run("PlanOrphans rejects empty map", func(t *testing.T) {
		_, err := NewPlaylistEngine(nil, libraryTarget(), nil, CoverageOptions{}).PlanOrphans(context.Background(), models.NewArtistPlaylistMap(), nil)
		if !errors.Is(err, shared.ErrInvalidArtistMap) {
			t.Errorf("expected ErrInvalidArtistMap, got %v", err)
		}
	})

	t.Run("PlaylistArtists", func(t *testing.T) {
		engine := NewPlaylistEngine(nil, libraryTarget(), nil, CoverageOptions{})
		snapshot, artists, err := engine.PlaylistArtists(context.Background(), "PLrock")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if snapshot.Title != "Rock Classics" || !equalStrings(artists, []string{"ABBA", "David Bowie", "Queen"}) {
			t.Errorf("unexpected artists %v", artists)
		}

		if _, _, err := engine.PlaylistArtists(context.Background(), "missing"); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})
}

func TestMatchPlaylist(t *testing.T) {
	summaries := []models.PlaylistSummary{
		{ID: "PLrock", Title: "Rock Classics"},
		{ID: "PL80s", Title: "80s Hits"},
		{ID: "PLrk", Title: "Russian Rock"},
	}

	tt := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{ref: "PL80s", want: "PL80s"},
		{ref: "Russian Rock", want: "PLrk"},
		{ref: "rock classics", want: "PLrock"},
		{ref: "80s", want: "PL80s"},
		{ref: "jazz", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.ref, func(t *testing.T) {
			got, err := MatchPlaylist(summaries, tc.ref)
			if tc.wantErr {
				if !errors.Is(err, shared.ErrPlaylistNotFound) {
					t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got.ID)
			}
		})
	}
}

func TestPhaseString(t *testing.T) {
	phases := []Phase{FetchLiked, ExportTracks, ImportTracks, FetchPlaylists, FetchPlaylist, Coverage, BuildMap, Distribute}
	seen := map[string]bool{}
	for _, p := range phases {
		s := p.String()
		if s == "" || seen[s] {
			t.Errorf("phase %d has empty or duplicate name %q", p, s)
		}
		seen[s] = true
	}
	if Phase(99).String() != "" {
		t.Error("expected unknown phase to be empty")
	}
}
