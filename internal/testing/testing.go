// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/desertthunder/ymx/internal/models"
)

// MockSource is a test double for the Yandex Music side of a transfer.
//
// Refs are resolved from Tracks by ref ID; ResolveErrs fails individual ids.
type MockSource struct {
	Refs        []models.SourceTrackRef
	Tracks      map[string]*models.SourceTrack
	LikedErr    error
	ResolveErrs map[string]error
	Resolved    []string
}

func (m *MockSource) LikedTracks(ctx context.Context) ([]models.SourceTrackRef, error) {
	if m.LikedErr != nil {
		return nil, m.LikedErr
	}
	return m.Refs, nil
}

func (m *MockSource) ResolveTrack(ctx context.Context, ref models.SourceTrackRef) (*models.SourceTrack, error) {
	m.Resolved = append(m.Resolved, ref.ID)
	if err, ok := m.ResolveErrs[ref.ID]; ok {
		return nil, err
	}
	if track, ok := m.Tracks[ref.ID]; ok {
		return track, nil
	}
	return nil, fmt.Errorf("track %s not found", ref.ID)
}

// AddCall records one AddPlaylistItems request.
type AddCall struct {
	PlaylistID string
	VideoIDs   []string
}

// MockTarget is a test double for the YouTube Music side of a transfer.
//
// Every call is recorded so tests can assert on order and count.
type MockTarget struct {
	Results      map[string][]models.SearchResult
	SearchErrs   map[string]error
	RateErrs     map[string]error
	Summaries    []models.PlaylistSummary
	Snapshots    map[string]*models.PlaylistSnapshot
	LibraryErr   error
	PlaylistErrs map[string]error
	AddErrs      map[string]error

	// OnSearch runs before each search; tests use it to cancel mid-run.
	OnSearch func(query string)

	Searches []string
	Rated    []string
	Fetched  []string
	AddCalls []AddCall
}

func (m *MockTarget) Search(ctx context.Context, query, filter string) ([]models.SearchResult, error) {
	if m.OnSearch != nil {
		m.OnSearch(query)
	}
	m.Searches = append(m.Searches, query)
	if err, ok := m.SearchErrs[query]; ok {
		return nil, err
	}
	return m.Results[query], nil
}

func (m *MockTarget) RateSong(ctx context.Context, videoID string, rating models.Rating) error {
	if err, ok := m.RateErrs[videoID]; ok {
		return err
	}
	m.Rated = append(m.Rated, videoID)
	return nil
}

func (m *MockTarget) LibraryPlaylists(ctx context.Context) ([]models.PlaylistSummary, error) {
	if m.LibraryErr != nil {
		return nil, m.LibraryErr
	}
	return m.Summaries, nil
}

func (m *MockTarget) Playlist(ctx context.Context, id string) (*models.PlaylistSnapshot, error) {
	m.Fetched = append(m.Fetched, id)
	if err, ok := m.PlaylistErrs[id]; ok {
		return nil, err
	}
	if snapshot, ok := m.Snapshots[id]; ok {
		return snapshot, nil
	}
	return nil, fmt.Errorf("playlist %s not found", id)
}

func (m *MockTarget) AddPlaylistItems(ctx context.Context, id string, videoIDs []string) error {
	ids := make([]string, len(videoIDs))
	copy(ids, videoIDs)
	m.AddCalls = append(m.AddCalls, AddCall{PlaylistID: id, VideoIDs: ids})
	if err, ok := m.AddErrs[id]; ok {
		return err
	}
	return nil
}

// Song builds a search result with a track id.
func Song(videoID, title, category string, artists ...string) models.SearchResult {
	r := models.SearchResult{VideoID: videoID, Title: title, Category: category, ResultType: "song"}
	for _, a := range artists {
		r.Artists = append(r.Artists, models.Artist{Name: a})
	}
	return r
}

// Entry builds a playlist entry.
func Entry(videoID, title string, artists ...string) models.PlaylistEntry {
	e := models.PlaylistEntry{VideoID: videoID, Title: title}
	for _, a := range artists {
		e.Artists = append(e.Artists, models.Artist{Name: a})
	}
	return e
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
