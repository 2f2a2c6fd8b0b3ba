package smoke

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/okian/lumina/internal/domain/catalog"
	"github.com/okian/lumina/internal/domain/filter"
	"github.com/okian/lumina/internal/domain/search"
	"github.com/okian/lumina/internal/domain/types"
)

// VerifySearch checks a server search result against the matcher's
// contract and against the result computed locally over cat.
func VerifySearch(cat *catalog.Catalog, q string, got search.Result) error {
	if strings.TrimSpace(q) == "" {
		if got.Active || len(got.Books) != 0 {
			return fmt.Errorf("%w: blank query %q returned an active result", ErrMismatch, q)
		}
		return nil
	}
	if !got.Active {
		return fmt.Errorf("%w: query %q returned an inactive result", ErrMismatch, q)
	}
	if len(got.Books) > search.SuggestionLimit {
		return fmt.Errorf("%w: query %q returned %d books", ErrMismatch, q, len(got.Books))
	}

	fold := cases.Fold()
	needle := fold.String(q)
	last := -1
	for _, b := range got.Books {
		if !strings.Contains(fold.String(b.Title), needle) && !strings.Contains(fold.String(b.Author), needle) {
			return fmt.Errorf("%w: query %q returned non-matching book %q", ErrMismatch, q, b.ID)
		}
		pos := slices.IndexFunc(cat.Books, func(c catalog.Book) bool { return c.ID == b.ID })
		if pos <= last {
			return fmt.Errorf("%w: query %q broke catalog order at %q", ErrMismatch, q, b.ID)
		}
		last = pos
	}

	want := search.Match(q, cat.Books)
	if !slices.Equal(ids(want.Books), ids(got.Books)) {
		return fmt.Errorf("%w: query %q: want %v, got %v", ErrMismatch, q, ids(want.Books), ids(got.Books))
	}
	return nil
}

// VerifyFilter checks a server book list against the local filter over cat.
func VerifyFilter(cat *catalog.Catalog, category string, got types.BookList) error {
	want := filter.Filter(category, cat.Books, cat.Categories)
	if !slices.Equal(ids(want), ids(got.Books)) {
		return fmt.Errorf("%w: category %q: want %v, got %v", ErrMismatch, category, ids(want), ids(got.Books))
	}
	if got.Count != len(got.Books) {
		return fmt.Errorf("%w: category %q: count %d for %d books", ErrMismatch, category, got.Count, len(got.Books))
	}
	if title := filter.Title(category); got.Title != title {
		return fmt.Errorf("%w: category %q: title %q, want %q", ErrMismatch, category, got.Title, title)
	}
	return nil
}

// VerifySession walks one visitor through type, dismiss, focus and select,
// checking the view after each step.
func VerifySession(ctx context.Context, c *Client, cat *catalog.Catalog) error {
	target, q, ok := sessionTarget(cat)
	if !ok {
		return nil
	}

	v, err := c.SetQuery(ctx, q)
	if err != nil {
		return err
	}
	if !v.State.SuggestionsOpen || !slices.Contains(ids(v.Suggestions.Books), target.ID) {
		return fmt.Errorf("%w: typing %q did not suggest %q", ErrMismatch, q, target.ID)
	}

	if v, err = c.Dismiss(ctx); err != nil {
		return err
	}
	if v.State.SuggestionsOpen || v.State.Query != q {
		return fmt.Errorf("%w: dismiss left panel open or lost the query", ErrMismatch)
	}

	if v, err = c.FocusSearch(ctx); err != nil {
		return err
	}
	if !v.State.SuggestionsOpen {
		return fmt.Errorf("%w: focus did not reopen suggestions", ErrMismatch)
	}

	nav, err := c.Select(ctx, target.ID)
	if err != nil {
		return err
	}
	if nav.BookID != target.ID || !strings.HasSuffix(nav.Navigate, "/"+target.ID) {
		return fmt.Errorf("%w: navigation %+v for %q", ErrMismatch, nav, target.ID)
	}

	if v, err = c.View(ctx); err != nil {
		return err
	}
	if v.State.Query != "" || v.State.SuggestionsOpen {
		return fmt.Errorf("%w: selection did not reset the search", ErrMismatch)
	}
	return nil
}

// sessionTarget picks a book whose title suggests it within the limit.
func sessionTarget(cat *catalog.Catalog) (catalog.Book, string, bool) {
	for _, b := range cat.Books {
		q := b.Title
		if slices.Contains(ids(search.Match(q, cat.Books).Books), b.ID) {
			return b, q, true
		}
	}
	return catalog.Book{}, "", false
}

func ids(books []catalog.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}
