package tasks

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/gosimple/slug"
	"github.com/rainycape/unidecode"
)

// WeakMatchThreshold is the confidence below which an imported track is reported as a weak match.
const WeakMatchThreshold = 0.5

// SelectBest picks the single best candidate from target catalog search results.
//
// Results without a track id are skipped. The first usable result flagged as the
// top result wins, then the first whose title equals query.Name exactly, then the
// first usable result. Callers handle empty input before calling.
func SelectBest(results []models.SearchResult, query models.Track) (models.SearchResult, error) {
	var first *models.SearchResult
	var titled *models.SearchResult

	for i := range results {
		r := &results[i]
		if !r.HasTrackID() {
			continue
		}
		if r.IsTopResult() {
			return *r, nil
		}
		if titled == nil && r.Title == query.Name {
			titled = r
		}
		if first == nil {
			first = r
		}
	}

	switch {
	case titled != nil:
		return *titled, nil
	case first != nil:
		return *first, nil
	default:
		return models.SearchResult{}, shared.ErrNoUsableResult
	}
}

// MatchConfidence scores how closely result resembles query, in [0, 1].
//
// Titles are transliterated and compared by edit distance. Artists count when
// one slug contains the other. The score never influences [SelectBest].
func MatchConfidence(result models.SearchResult, query models.Track) float64 {
	return 0.7*titleSimilarity(result.Title, query.Name) + 0.3*artistAgreement(result.ArtistNames(), query.Artist)
}

func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(unidecode.Unidecode(s))), " ")
}

func titleSimilarity(a, b string) float64 {
	a, b = normalizeTitle(a), normalizeTitle(b)
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func artistAgreement(candidates []string, artist string) float64 {
	if artist == models.UnknownArtist || len(candidates) == 0 {
		return 0.5
	}

	want := slug.Make(artist)
	if want == "" {
		return 0.5
	}
	for _, c := range candidates {
		got := slug.Make(c)
		if got == "" {
			continue
		}
		if strings.Contains(got, want) || strings.Contains(want, got) {
			return 1
		}
	}
	return 0
}
