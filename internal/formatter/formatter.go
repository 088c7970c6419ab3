// package formatter renders transfer reports, orphan lists and distribution plans to files
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/desertthunder/ymx/internal/tasks"
)

// Format selects the encoding of a transfer report.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a user supplied report format. An empty name selects JSON.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidArgument, name)
	}
}

// TransferReport is the JSON document written after a like transfer.
//
// LikedTracks holds every input track in processing order; NotFound and Errors are subsets of it.
type TransferReport struct {
	LikedTracks []models.Track `json:"liked_tracks"`
	NotFound    []models.Track `json:"not_found"`
	Errors      []models.Track `json:"errors"`
	Pending     []models.Track `json:"pending,omitempty"`
}

// NewTransferReport builds a report from a finished (or interrupted) outcome.
func NewTransferReport(outcome *models.TransferOutcome) *TransferReport {
	return &TransferReport{
		LikedTracks: nonNil(outcome.Processed()),
		NotFound:    nonNil(outcome.NotFound),
		Errors:      nonNil(outcome.Errored),
		Pending:     outcome.Pending,
	}
}

func nonNil(tracks []models.Track) []models.Track {
	if tracks == nil {
		return []models.Track{}
	}
	return tracks
}

// ReportToJSON encodes the report indented, leaving non-ASCII text and HTML characters unescaped.
func ReportToJSON(report *TransferReport) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return buf.Bytes(), nil
}

// OutcomeToCSV converts per-track results to CSV with columns: Position, Artist, Name, Status, VideoID, Confidence, Error
func OutcomeToCSV(outcome *models.TransferOutcome) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Artist", "Name", "Status", "VideoID", "Confidence", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, res := range outcome.Results {
		confidence := ""
		if res.Status == models.StatusImported {
			confidence = strconv.FormatFloat(res.Confidence, 'f', 2, 64)
		}
		record := []string{
			strconv.Itoa(i + 1),
			res.Track.Artist,
			res.Track.Name,
			string(res.Status),
			res.VideoID,
			confidence,
			res.Error(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// OrphansToTSV renders one "artist<TAB>title<TAB>videoId" line per entry.
//
// Entries without artists are written under [models.UnknownArtist].
func OrphansToTSV(entries []models.PlaylistEntry) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		artist, ok := e.PrimaryArtist()
		if !ok {
			artist = models.UnknownArtist
		}
		buf.WriteString(fmt.Sprintf("%s\t%s\t%s\n", clean(artist), clean(e.Title), e.VideoID))
	}
	return buf.Bytes()
}

func clean(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
}

// PlaylistsToText lists library playlists as "title: id" lines.
func PlaylistsToText(playlists []models.PlaylistSummary) []byte {
	var buf bytes.Buffer
	for _, p := range playlists {
		buf.WriteString(fmt.Sprintf("%s: %s\n", p.Title, p.ID))
	}
	return buf.Bytes()
}

// PlanToText describes a distribution plan, skipping empty batches.
func PlanToText(plan []tasks.PlaylistBatch) []byte {
	var buf bytes.Buffer
	total := 0
	for _, batch := range plan {
		if len(batch.VideoIDs) == 0 {
			continue
		}
		total += len(batch.VideoIDs)
		buf.WriteString(fmt.Sprintf("%s (%s): %d tracks\n", batch.Title, batch.PlaylistID, len(batch.VideoIDs)))
		for i, tr := range batch.Tracks {
			buf.WriteString(fmt.Sprintf("  %d. %s\n", i+1, tr.String()))
		}
	}
	buf.WriteString(fmt.Sprintf("Total: %d tracks\n", total))
	return buf.Bytes()
}

// DistributionToText summarizes what a distribution run did per playlist.
func DistributionToText(result *tasks.DistributionResult) []byte {
	var buf bytes.Buffer
	for _, b := range result.Batches {
		switch {
		case b.Err != nil:
			buf.WriteString(fmt.Sprintf("%s: failed to add %d tracks: %v\n", b.Batch.Title, len(b.Batch.VideoIDs), b.Err))
		case b.Added:
			buf.WriteString(fmt.Sprintf("%s: added %d tracks\n", b.Batch.Title, len(b.Batch.VideoIDs)))
		}
	}
	buf.WriteString(fmt.Sprintf("Added %d tracks, %d playlists failed\n", result.Added(), len(result.Failed())))
	return buf.Bytes()
}

// WriteTransferReport writes the outcome to path in the given format, creating parent directories.
func WriteTransferReport(outcome *models.TransferOutcome, path string, format Format) (string, error) {
	if path == "" {
		path = "tracks." + string(format)
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = OutcomeToCSV(outcome)
	case FormatJSON:
		data, err = ReportToJSON(NewTransferReport(outcome))
	default:
		err = fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}

	if err := writeFile(path, data); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return path, nil
}

// WriteOrphans writes the orphan list to path, defaulting to tracks.txt.
func WriteOrphans(entries []models.PlaylistEntry, path string) (string, error) {
	if path == "" {
		path = "tracks.txt"
	}
	if err := writeFile(path, OrphansToTSV(entries)); err != nil {
		return "", fmt.Errorf("failed to write orphans file: %w", err)
	}
	return path, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
