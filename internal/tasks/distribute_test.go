package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/ymx/internal/models"
	th "github.com/desertthunder/ymx/internal/testing"
)

func TestPlanDistribution(t *testing.T) {
	m := models.NewArtistPlaylistMap(
		models.NewArtistPlaylist("Rock", "PLrock", []string{"Queen"}),
		models.NewArtistPlaylist("80s", "PL80s", []string{"Queen", "ABBA"}),
		models.NewArtistPlaylist("Jazz", "PLjazz", []string{"Miles Davis"}),
	)

	t.Run("track goes to every playlist listing its artist", func(t *testing.T) {
		plan := PlanDistribution(m, []models.PlaylistEntry{th.Entry("v1", "X", "Queen")})

		if len(plan) != 3 {
			t.Fatalf("expected one batch per map entry, got %d", len(plan))
		}
		if plan[0].Title != "Rock" || !equalStrings(plan[0].VideoIDs, []string{"v1"}) {
			t.Errorf("unexpected Rock batch %+v", plan[0])
		}
		if plan[1].Title != "80s" || !equalStrings(plan[1].VideoIDs, []string{"v1"}) {
			t.Errorf("unexpected 80s batch %+v", plan[1])
		}
		if len(plan[2].VideoIDs) != 0 {
			t.Errorf("expected empty Jazz batch, got %+v", plan[2])
		}
	})

	t.Run("only first artist matters", func(t *testing.T) {
		plan := PlanDistribution(m, []models.PlaylistEntry{
			th.Entry("v2", "Duet", "Freddie Mercury", "Queen"),
			th.Entry("v3", "Dancing", "ABBA"),
		})
		if len(plan[0].VideoIDs) != 0 {
			t.Errorf("secondary artist must not match, got %+v", plan[0])
		}
		if !equalStrings(plan[1].VideoIDs, []string{"v3"}) {
			t.Errorf("unexpected 80s batch %+v", plan[1])
		}
	})

	t.Run("artist match is exact", func(t *testing.T) {
		plan := PlanDistribution(m, []models.PlaylistEntry{th.Entry("v4", "Song", "queen")})
		for _, b := range plan {
			if len(b.VideoIDs) != 0 {
				t.Errorf("expected no match for different case, got %+v", b)
			}
		}
	})

	t.Run("tracks without artists are skipped", func(t *testing.T) {
		plan := PlanDistribution(m, []models.PlaylistEntry{th.Entry("v5", "Nobody")})
		for _, b := range plan {
			if len(b.VideoIDs) != 0 {
				t.Errorf("expected no match, got %+v", b)
			}
		}
	})

	t.Run("keeps uncovered order within a batch", func(t *testing.T) {
		plan := PlanDistribution(m, []models.PlaylistEntry{
			th.Entry("b", "B", "ABBA"),
			th.Entry("a", "A", "Queen"),
		})
		if !equalStrings(plan[1].VideoIDs, []string{"b", "a"}) {
			t.Errorf("expected uncovered order, got %v", plan[1].VideoIDs)
		}
		if plan[1].Tracks[0] != (models.Track{Artist: "ABBA", Name: "B"}) {
			t.Errorf("unexpected track %v", plan[1].Tracks[0])
		}
	})

	t.Run("nil map", func(t *testing.T) {
		if plan := PlanDistribution(nil, []models.PlaylistEntry{th.Entry("v1", "X", "Queen")}); len(plan) != 0 {
			t.Errorf("expected empty plan, got %+v", plan)
		}
	})
}

func TestDistributor(t *testing.T) {
	plan := []PlaylistBatch{
		{Title: "Rock", PlaylistID: "PLrock", VideoIDs: []string{"v1", "v2"}},
		{Title: "Empty", PlaylistID: "PLempty"},
		{Title: "Broken", PlaylistID: "PLbroken", VideoIDs: []string{"v3"}},
		{Title: "80s", PlaylistID: "PL80s", VideoIDs: []string{"v1"}},
	}

	t.Run("one call per non-empty batch and failures are isolated", func(t *testing.T) {
		target := &th.MockTarget{AddErrs: map[string]error{"PLbroken": errors.New("quota")}}
		progress := make(chan ProgressUpdate, 10)

		result, err := NewDistributor(target, nil).Apply(context.Background(), plan, progress)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(target.AddCalls) != 3 {
			t.Fatalf("expected 3 add calls, got %d: %+v", len(target.AddCalls), target.AddCalls)
		}
		if target.AddCalls[0].PlaylistID != "PLrock" || target.AddCalls[2].PlaylistID != "PL80s" {
			t.Errorf("unexpected call order %+v", target.AddCalls)
		}
		if !equalStrings(target.AddCalls[0].VideoIDs, []string{"v1", "v2"}) {
			t.Errorf("expected batch sent in one call, got %v", target.AddCalls[0].VideoIDs)
		}

		if len(result.Batches) != 4 {
			t.Fatalf("expected every batch in the result, got %d", len(result.Batches))
		}
		if result.Batches[1].Added || result.Batches[1].Err != nil {
			t.Errorf("empty batch should be neither added nor failed, got %+v", result.Batches[1])
		}
		failed := result.Failed()
		if len(failed) != 1 || failed[0].Batch.Title != "Broken" {
			t.Errorf("unexpected failures %+v", failed)
		}
		if result.Added() != 3 {
			t.Errorf("expected 3 added tracks, got %d", result.Added())
		}
		if len(progress) != 4 {
			t.Errorf("expected one progress update per batch, got %d", len(progress))
		}
	})

	t.Run("cancellation stops between batches", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		target := &th.MockTarget{}
		result, err := NewDistributor(target, nil).Apply(ctx, plan, nil)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if len(target.AddCalls) != 0 || len(result.Batches) != 0 {
			t.Errorf("expected nothing sent, got %+v", target.AddCalls)
		}
	})
}
