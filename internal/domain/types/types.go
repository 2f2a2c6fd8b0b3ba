// Package types contains the response shapes shared by the storefront
// adapters.
package types

import (
	"github.com/okian/lumina/internal/domain/catalog"
	"github.com/okian/lumina/internal/domain/search"
	"github.com/okian/lumina/internal/domain/selection"
)

// View is everything a page needs to render one browsing session.
type View struct {
	State       selection.State `json:"state"`
	Suggestions search.Result   `json:"suggestions"`
	Books       []catalog.Book  `json:"books"`
	Title       string          `json:"title"`
	CartCount   int             `json:"cart_count"`
}

// BookList is a filtered product grid.
type BookList struct {
	Category *string        `json:"category"` // nil when no category is selected
	Title    string         `json:"title"`
	Books    []catalog.Book `json:"books"`
	Count    int            `json:"count"`
}

// NewBookList builds a BookList for category ("" for none).
func NewBookList(category, title string, books []catalog.Book) BookList {
	l := BookList{Title: title, Books: books, Count: len(books)}
	if category != "" {
		l.Category = &category
	}
	return l
}

// Navigate tells the client where a picked suggestion leads.
type Navigate struct {
	Navigate string `json:"navigate"`
	BookID   string `json:"book_id"`
}
