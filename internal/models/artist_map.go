package models

// ArtistPlaylist is one entry of an [ArtistPlaylistMap]: a target playlist and the artists that belong in it.
type ArtistPlaylist struct {
	Title      string
	PlaylistID string
	artists    []string
	set        map[string]struct{}
}

// NewArtistPlaylist builds an entry; duplicate artist names collapse but first-seen order is kept.
func NewArtistPlaylist(title, playlistID string, artists []string) ArtistPlaylist {
	entry := ArtistPlaylist{
		Title:      title,
		PlaylistID: playlistID,
		set:        make(map[string]struct{}, len(artists)),
	}
	for _, a := range artists {
		if _, ok := entry.set[a]; ok {
			continue
		}
		entry.set[a] = struct{}{}
		entry.artists = append(entry.artists, a)
	}
	return entry
}

// Contains reports whether artist belongs to this playlist. Matching is exact.
func (e ArtistPlaylist) Contains(artist string) bool {
	_, ok := e.set[artist]
	return ok
}

// Artists returns the artist names in document order.
func (e ArtistPlaylist) Artists() []string {
	out := make([]string, len(e.artists))
	copy(out, e.artists)
	return out
}

// ArtistPlaylistMap maps playlists to artist sets, preserving the order of the source document.
//
// Membership is many-to-many: an artist may appear under several playlists.
type ArtistPlaylistMap struct {
	entries []ArtistPlaylist
}

// NewArtistPlaylistMap builds a map from entries in iteration order.
func NewArtistPlaylistMap(entries ...ArtistPlaylist) *ArtistPlaylistMap {
	m := &ArtistPlaylistMap{}
	m.entries = append(m.entries, entries...)
	return m
}

// Entries returns the entries in iteration order.
func (m *ArtistPlaylistMap) Entries() []ArtistPlaylist {
	if m == nil {
		return nil
	}
	out := make([]ArtistPlaylist, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of playlists in the map.
func (m *ArtistPlaylistMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Lookup finds an entry by its title.
func (m *ArtistPlaylistMap) Lookup(title string) (ArtistPlaylist, bool) {
	for _, e := range m.Entries() {
		if e.Title == title {
			return e, true
		}
	}
	return ArtistPlaylist{}, false
}
