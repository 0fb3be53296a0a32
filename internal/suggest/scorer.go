// Package suggest implements the autocomplete path: relevance scoring of
// school names against a free-text query, plus the provider fallback logic.
package suggest

import (
	"regexp"
	"sort"
	"strings"

	"collegematch/internal/scorecard"
)

const (
	// MaxSuggestions caps the ranked suggestion list.
	MaxSuggestions = 20

	// Scores are additive across the three signals, not exclusive: a full
	// prefix match also counts as a substring match.
	prefixScore    = 2.0
	wordScore      = 1.0
	substringScore = 0.5
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)

// Normalize prepares a name or query for comparison: lowercase, strip
// everything outside [a-z0-9\s], collapse whitespace, trim. The same
// normalization is applied to both sides.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// Suggestion is the projection of a school record served to autocomplete.
type Suggestion struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
}

// scoreName rates one normalized candidate name against the normalized
// query. A zero score keeps the candidate eligible; it just ranks last.
func scoreName(name, query string) float64 {
	var score float64
	if strings.HasPrefix(name, query) {
		score += prefixScore
	}
	for _, word := range strings.Split(name, " ") {
		if strings.HasPrefix(word, query) {
			score += wordScore
			break
		}
	}
	if strings.Contains(name, query) {
		score += substringScore
	}
	return score
}

// Rank orders candidates by relevance to the query, deduplicates by id
// keeping the first occurrence after sorting, and caps the list. Ties keep
// provider order.
func Rank(query string, candidates *scorecard.Schools) []Suggestion {
	q := Normalize(query)

	type scored struct {
		school *scorecard.School
		score  float64
	}

	rows := make([]scored, 0, candidates.Len())
	for _, school := range candidates.Items {
		if school.Name == "" {
			continue
		}
		rows = append(rows, scored{
			school: school,
			score:  scoreName(Normalize(school.Name), q),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].score > rows[j].score
	})

	seen := make(map[int]bool, len(rows))
	out := make([]Suggestion, 0, MaxSuggestions)
	for _, row := range rows {
		if seen[row.school.ID] {
			continue
		}
		seen[row.school.ID] = true

		out = append(out, Suggestion{
			ID:    row.school.ID,
			Name:  row.school.Name,
			City:  row.school.City,
			State: row.school.State,
		})
		if len(out) == MaxSuggestions {
			break
		}
	}

	return out
}
