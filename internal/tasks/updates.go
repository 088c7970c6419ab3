package tasks

import (
	"fmt"

	"github.com/desertthunder/ymx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchLiked Phase = iota
	ExportTracks
	ImportTracks
	FetchPlaylists
	FetchPlaylist
	Coverage
	BuildMap
	Distribute
)

func (p Phase) String() string {
	switch p {
	case FetchLiked:
		return "fetch_liked"
	case ExportTracks:
		return "export_tracks"
	case ImportTracks:
		return "import_tracks"
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchPlaylist:
		return "fetch_playlist"
	case Coverage:
		return "coverage"
	case BuildMap:
		return "build_map"
	case Distribute:
		return "distribute"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchLikedUpdate(count int) ProgressUpdate {
	if count < 0 {
		return ProgressUpdate{Phase: FetchLiked, Message: "Fetching liked tracks from Yandex Music..."}
	}
	return ProgressUpdate{
		Phase:   FetchLiked,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d liked tracks", count),
	}
}

func exportTrackUpdate(step, total int, tr models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("%d/%d: %s", step, total, tr),
		Data:    tr,
	}
}

func exportSkippedUpdate(step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Skipped track %d: %v", step, err),
	}
}

func importTrackUpdate(step, total int, res models.ItemResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportTracks,
		Step:    step,
		Total:   total,
		Message: res.Track.String(),
		Data:    res,
	}
}

func fetchPlaylistsUpdate(count int) ProgressUpdate {
	if count < 0 {
		return ProgressUpdate{Phase: FetchPlaylists, Message: "Fetching library playlists..."}
	}
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d playlists", count),
	}
}

func fetchPlaylistUpdate(step, total int, pl models.PlaylistSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, pl.Title),
		Data:    pl,
	}
}

func coverageUpdate(uncovered, liked int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Coverage,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%d of %d liked tracks are not in any playlist", uncovered, liked),
	}
}

func buildMapUpdate(step, total int, title string, artists int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildMap,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s (%d artists)", step, total, title, artists),
	}
}

func distributeUpdate(step, total int, res BatchResult) ProgressUpdate {
	msg := fmt.Sprintf("Add %d tracks to playlist %s", len(res.Batch.VideoIDs), res.Batch.PlaylistID)
	if res.Err != nil {
		msg = fmt.Sprintf("✗ %s: %v", msg, res.Err)
	}
	return ProgressUpdate{
		Phase:   Distribute,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    res,
	}
}
