package models

import "fmt"

// UnknownArtist is used when the source catalog returns a track without artists.
const UnknownArtist = "Unknown Artist"

// Track is the (artist, name) pair used to look a song up in another catalog.
//
// No identifier survives the trip between services, so two tracks are the same when both fields are equal.
type Track struct {
	Artist string `json:"artist"`
	Name   string `json:"name"`
}

// NewTrack builds a [Track] from a source artist list, keeping only the primary (first) artist.
func NewTrack(artists []string, title string) Track {
	artist := UnknownArtist
	if len(artists) > 0 && artists[0] != "" {
		artist = artists[0]
	}
	return Track{Artist: artist, Name: title}
}

// Query returns the search string sent to the target catalog.
func (t Track) Query() string {
	return fmt.Sprintf("%s %s", t.Artist, t.Name)
}

// String renders the track as "artist - name".
func (t Track) String() string {
	return fmt.Sprintf("%s - %s", t.Artist, t.Name)
}

// SourceTrackRef is a liked-feed handle from the source catalog.
//
// It carries only identifiers; full metadata comes from resolving it.
type SourceTrackRef struct {
	ID        string `json:"id"`
	AlbumID   string `json:"albumId,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// SourceTrack is the resolved metadata of a [SourceTrackRef].
type SourceTrack struct {
	ID      string
	Title   string
	Artists []string
}

// Track converts resolved source metadata into a [Track].
func (s SourceTrack) Track() Track {
	return NewTrack(s.Artists, s.Title)
}
