package smoke

import (
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"github.com/okian/lumina/internal/domain/catalog"
)

// Query mix, in percent. The remainder are random substrings of titles and
// authors.
const (
	blankQueryPercent   = 5
	missingQueryPercent = 10
	maxFragmentRunes    = 6
)

var blankQueries = []string{"", " ", "   ", "\t"}

// GenerateQueries builds n queries over cat. Most are fragments of a title
// or author in random case so they exercise case-insensitive matching; some
// are blank or match nothing.
func GenerateQueries(cat *catalog.Catalog, n int, seed uint64) []string {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]string, 0, n)
	for len(out) < n {
		roll := rng.IntN(100)
		switch {
		case roll < blankQueryPercent:
			out = append(out, blankQueries[rng.IntN(len(blankQueries))])
		case roll < blankQueryPercent+missingQueryPercent || len(cat.Books) == 0:
			out = append(out, "zq"+strings.Repeat("x", 1+rng.IntN(3)))
		default:
			b := cat.Books[rng.IntN(len(cat.Books))]
			src := b.Title
			if rng.IntN(2) == 0 {
				src = b.Author
			}
			out = append(out, randomCase(rng, fragment(rng, src)))
		}
	}
	return out
}

func fragment(rng *rand.Rand, s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return "a"
	}
	size := 1 + rng.IntN(min(maxFragmentRunes, len(runes)))
	start := rng.IntN(len(runes) - size + 1)
	return string(runes[start : start+size])
}

func randomCase(rng *rand.Rand, s string) string {
	var b strings.Builder
	b.Grow(utf8.RuneCountInString(s))
	for _, r := range s {
		if rng.IntN(2) == 0 {
			b.WriteString(strings.ToUpper(string(r)))
		} else {
			b.WriteString(strings.ToLower(string(r)))
		}
	}
	return b.String()
}

// Categories returns every category name the grid can be filtered by, plus
// "" for no category.
func Categories(cat *catalog.Catalog) []string {
	out := []string{""}
	for _, top := range cat.Categories {
		out = append(out, top.Name)
		for _, sub := range top.Subcategories {
			out = append(out, sub.Name)
		}
	}
	return out
}
