// Package playlistmap reads and writes the artist map: a YAML document keyed by
// playlist title whose values name the playlist id and the artists that belong in it.
//
//	Rock Classics:
//	  id: PLxxxxxxxx
//	  artists:
//	  - ABBA
//	  - Queen
//
// Key order is preserved in both directions; distribution visits playlists in document order.
package playlistmap

import (
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
	"gopkg.in/yaml.v2"
)

type entryDoc struct {
	ID      string   `yaml:"id,omitempty"`
	Kind    *int     `yaml:"kind,omitempty"`
	Artists []string `yaml:"artists"`
}

// Load reads and parses the artist map at path.
func Load(path string) (*models.ArtistPlaylistMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artist map: %w", err)
	}
	return Parse(data)
}

// Parse decodes an artist map document.
//
// Entries may carry the playlist id under "id" or, for maps exported from
// Yandex Music, under "kind". Every entry needs one of them.
func Parse(data []byte) (*models.ArtistPlaylistMap, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArtistMap, err)
	}

	seen := make(map[string]struct{}, len(doc))
	entries := make([]models.ArtistPlaylist, 0, len(doc))
	for _, item := range doc {
		title := fmt.Sprint(item.Key)
		if _, dup := seen[title]; dup {
			return nil, fmt.Errorf("%w: duplicate playlist %q", shared.ErrInvalidArtistMap, title)
		}
		seen[title] = struct{}{}

		entry, err := decodeEntry(item.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: playlist %q: %v", shared.ErrInvalidArtistMap, title, err)
		}

		id := entry.ID
		if id == "" && entry.Kind != nil {
			id = strconv.Itoa(*entry.Kind)
		}
		if id == "" {
			return nil, fmt.Errorf("%w: playlist %q has no id", shared.ErrInvalidArtistMap, title)
		}

		entries = append(entries, models.NewArtistPlaylist(title, id, entry.Artists))
	}
	return models.NewArtistPlaylistMap(entries...), nil
}

// decodeEntry re-encodes a generic YAML value so it can be decoded into entryDoc.
func decodeEntry(value any) (entryDoc, error) {
	var entry entryDoc
	if value == nil {
		return entry, fmt.Errorf("empty entry")
	}
	if _, ok := value.(yaml.MapSlice); !ok {
		if _, ok := value.(map[any]any); !ok {
			return entry, fmt.Errorf("expected a mapping, got %T", value)
		}
	}

	raw, err := yaml.Marshal(value)
	if err != nil {
		return entry, err
	}
	if err := yaml.Unmarshal(raw, &entry); err != nil {
		return entry, err
	}
	return entry, nil
}

// Marshal encodes m with playlist ids under "id".
func Marshal(m *models.ArtistPlaylistMap) ([]byte, error) {
	return marshal(m, func(e models.ArtistPlaylist) yaml.MapItem {
		return yaml.MapItem{Key: "id", Value: e.PlaylistID}
	})
}

// MarshalKinds encodes m with numeric Yandex playlist kinds under "kind".
func MarshalKinds(m *models.ArtistPlaylistMap) ([]byte, error) {
	return marshal(m, func(e models.ArtistPlaylist) yaml.MapItem {
		if kind, err := strconv.Atoi(e.PlaylistID); err == nil {
			return yaml.MapItem{Key: "kind", Value: kind}
		}
		return yaml.MapItem{Key: "id", Value: e.PlaylistID}
	})
}

func marshal(m *models.ArtistPlaylistMap, idItem func(models.ArtistPlaylist) yaml.MapItem) ([]byte, error) {
	doc := make(yaml.MapSlice, 0, m.Len())
	seen := make(map[string]struct{}, m.Len())
	for _, e := range m.Entries() {
		if _, dup := seen[e.Title]; dup {
			return nil, fmt.Errorf("%w: duplicate playlist %q", shared.ErrInvalidArtistMap, e.Title)
		}
		seen[e.Title] = struct{}{}

		artists := e.Artists()
		if artists == nil {
			artists = []string{}
		}
		doc = append(doc, yaml.MapItem{
			Key:   e.Title,
			Value: yaml.MapSlice{idItem(e), {Key: "artists", Value: artists}},
		})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode artist map: %w", err)
	}
	return data, nil
}

// Save writes m to path.
func Save(path string, m *models.ArtistPlaylistMap) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	return write(path, data)
}

// SaveKinds writes a Yandex Music map to path.
func SaveKinds(path string, m *models.ArtistPlaylistMap) error {
	data, err := MarshalKinds(m)
	if err != nil {
		return err
	}
	return write(path, data)
}

func write(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write artist map: %w", err)
	}
	return nil
}
