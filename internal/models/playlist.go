package models

import "sort"

const (
	LikedSongsPlaylistID = "LM" // target catalog's collection of liked songs
	SystemPlaylistID     = "SE" // special playlist never scanned for coverage
)

// Artist is an artist reference in target catalog payloads.
type Artist struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// Album is an album reference in target catalog payloads.
type Album struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// PlaylistSummary is a library playlist without its tracks.
type PlaylistSummary struct {
	ID    string `json:"playlistId"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// PlaylistEntry is one track inside a [PlaylistSnapshot].
type PlaylistEntry struct {
	VideoID string   `json:"videoId"`
	Title   string   `json:"title"`
	Artists []Artist `json:"artists"`
}

// PrimaryArtist returns the first listed artist name, if any.
func (e PlaylistEntry) PrimaryArtist() (string, bool) {
	if len(e.Artists) == 0 || e.Artists[0].Name == "" {
		return "", false
	}
	return e.Artists[0].Name, true
}

// Track converts the entry into a [Track] for display and reports.
func (e PlaylistEntry) Track() Track {
	names := make([]string, 0, len(e.Artists))
	for _, a := range e.Artists {
		names = append(names, a.Name)
	}
	return NewTrack(names, e.Title)
}

// PlaylistSnapshot is a playlist with its ordered tracks.
type PlaylistSnapshot struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Tracks []PlaylistEntry `json:"tracks"`
}

// Artists returns the sorted set of every artist named in the playlist.
func (p PlaylistSnapshot) Artists() []string {
	seen := make(map[string]struct{})
	for _, tr := range p.Tracks {
		for _, a := range tr.Artists {
			if a.Name == "" {
				continue
			}
			seen[a.Name] = struct{}{}
		}
	}

	artists := make([]string, 0, len(seen))
	for name := range seen {
		artists = append(artists, name)
	}
	sort.Strings(artists)
	return artists
}
