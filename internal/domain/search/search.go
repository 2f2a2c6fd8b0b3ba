// Package search implements the suggestion matcher behind the search box.
package search

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/okian/lumina/internal/domain/catalog"
)

// SuggestionLimit caps the suggestion dropdown. It is a fixed product
// decision and deliberately not configurable.
const SuggestionLimit = 5

// Result is the matcher output. Active is false when the query is blank,
// which is distinct from an active search with no matches.
type Result struct {
	Active bool           `json:"active"`
	Books  []catalog.Book `json:"books"`
}

// Empty reports the "no results" state: an active search with no matches.
func (r Result) Empty() bool { return r.Active && len(r.Books) == 0 }

// Inactive is the result for a blank query.
func Inactive() Result { return Result{Books: []catalog.Book{}} }

// Match returns the books whose title or author contains query, compared
// case-insensitively, in catalog order and truncated to SuggestionLimit.
//
// Blank detection trims the query but matching uses it as typed, so a
// leading space only matches titles containing that space.
func Match(query string, books []catalog.Book) Result {
	if strings.TrimSpace(query) == "" {
		return Inactive()
	}

	// cases.Caser keeps internal state; one per call keeps Match safe for
	// concurrent use.
	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]catalog.Book, 0, SuggestionLimit)
	for _, b := range books {
		if strings.Contains(fold.String(b.Title), needle) || strings.Contains(fold.String(b.Author), needle) {
			out = append(out, b)
			if len(out) == SuggestionLimit {
				break
			}
		}
	}
	return Result{Active: true, Books: out}
}
