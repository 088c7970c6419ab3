package models

// TopResultCategory marks the catalog's own most relevant search hit.
const TopResultCategory = "Top result"

// SongsFilter restricts target catalog searches to songs.
const SongsFilter = "songs"

// Rating is a like/dislike value sent to the target catalog.
type Rating string

const (
	RatingLike        Rating = "LIKE"
	RatingDislike     Rating = "DISLIKE"
	RatingIndifferent Rating = "INDIFFERENT"
)

// SearchResult is one candidate returned by the target catalog's search.
//
// Only VideoID, Title and Category take part in match selection.
type SearchResult struct {
	VideoID    string   `json:"videoId"`
	Title      string   `json:"title"`
	Category   string   `json:"category,omitempty"`
	ResultType string   `json:"resultType,omitempty"`
	Artists    []Artist `json:"artists,omitempty"`
	Album      *Album   `json:"album,omitempty"`
	Duration   string   `json:"duration,omitempty"`
}

// HasTrackID reports whether the result can be liked or added to a playlist.
func (r SearchResult) HasTrackID() bool {
	return r.VideoID != ""
}

// IsTopResult reports whether the catalog flagged this result as its top hit.
func (r SearchResult) IsTopResult() bool {
	return r.Category == TopResultCategory
}

// ArtistNames returns the result's artist names in order.
func (r SearchResult) ArtistNames() []string {
	names := make([]string, 0, len(r.Artists))
	for _, a := range r.Artists {
		names = append(names, a.Name)
	}
	return names
}
