package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/ymx/internal/models"
	th "github.com/desertthunder/ymx/internal/testing"
)

func refs(ids ...string) []models.SourceTrackRef {
	out := make([]models.SourceTrackRef, len(ids))
	for i, id := range ids {
		out[i] = models.SourceTrackRef{ID: id}
	}
	return out
}

func TestExporter(t *testing.T) {
	source := &th.MockSource{
		Tracks: map[string]*models.SourceTrack{
			"1": {ID: "1", Title: "First", Artists: []string{"A", "B"}},
			"2": {ID: "2", Title: "Second", Artists: nil},
			"4": {ID: "4", Title: "Fourth", Artists: []string{"D"}},
		},
		ResolveErrs: map[string]error{
			"3": errors.New("missing 1 required positional argument: 'id'"),
		},
	}

	t.Run("skips failures and keeps order", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 10)
		result, err := NewExporter(source, nil).Export(context.Background(), refs("1", "2", "3", "4", "5"), progress)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []models.Track{
			{Artist: "A", Name: "First"},
			{Artist: models.UnknownArtist, Name: "Second"},
			{Artist: "D", Name: "Fourth"},
		}
		if len(result.Tracks) != len(want) {
			t.Fatalf("expected %d tracks, got %d", len(want), len(result.Tracks))
		}
		for i := range want {
			if result.Tracks[i] != want[i] {
				t.Errorf("track %d: expected %v, got %v", i, want[i], result.Tracks[i])
			}
		}

		if result.Skipped != 2 {
			t.Errorf("expected 2 skipped, got %d", result.Skipped)
		}
		if len(result.Failures) != 2 || result.Failures[0].Index != 2 || result.Failures[1].Index != 4 {
			t.Errorf("unexpected failures %+v", result.Failures)
		}
		if len(result.Tracks)+result.Skipped > 5 {
			t.Error("exported plus skipped exceeds input")
		}
		if len(progress) != 5 {
			t.Errorf("expected one progress update per ref, got %d", len(progress))
		}
	})

	t.Run("empty feed", func(t *testing.T) {
		result, err := NewExporter(source, nil).Export(context.Background(), nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Tracks) != 0 || result.Skipped != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("nil metadata counts as skipped", func(t *testing.T) {
		src := &th.MockSource{Tracks: map[string]*models.SourceTrack{"1": nil}}
		result, err := NewExporter(src, nil).Export(context.Background(), refs("1"), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Skipped != 1 {
			t.Errorf("expected nil metadata to be skipped, got %+v", result)
		}
	})

	t.Run("cancellation returns partial result", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := NewExporter(source, nil).Export(ctx, refs("1", "2"), nil)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if result == nil || len(result.Tracks) != 0 {
			t.Errorf("expected empty partial result, got %+v", result)
		}
	})
}

func TestOldestFirst(t *testing.T) {
	tracks := []models.Track{{Artist: "A", Name: "1"}, {Artist: "B", Name: "2"}, {Artist: "C", Name: "3"}}
	got := OldestFirst(tracks)

	if got[0].Name != "3" || got[1].Name != "2" || got[2].Name != "1" {
		t.Errorf("expected reversed order, got %v", got)
	}
	if tracks[0].Name != "1" {
		t.Error("input must not be modified")
	}
	if len(OldestFirst(nil)) != 0 {
		t.Error("expected empty output for nil input")
	}
}
