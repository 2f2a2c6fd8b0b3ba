// Package filter narrows the product grid to the selected category.
package filter

import "github.com/okian/lumina/internal/domain/catalog"

// None is the "no category selected" value.
const None = ""

// DefaultTitle heads the grid when no category is selected.
const DefaultTitle = "New Arrivals & Best Sellers"

// Filter returns the books belonging to selected, preserving catalog order.
//
// A book belongs to selected when its category equals selected, or when
// selected names a top-level category and the book's category is one of that
// category's direct subcategories. Exactly one level of nesting is consulted:
// grandchildren of a top-level category never match it. Unknown names are not
// an error; they simply match books carrying that literal category string.
func Filter(selected string, books []catalog.Book, categories []catalog.Category) []catalog.Book {
	if selected == None {
		out := make([]catalog.Book, len(books))
		copy(out, books)
		return out
	}

	members := map[string]struct{}{selected: {}}
	for _, top := range categories {
		if top.Name != selected {
			continue
		}
		for _, sub := range top.Subcategories {
			members[sub.Name] = struct{}{}
		}
		// first match wins, same as a find over the top level
		break
	}

	out := make([]catalog.Book, 0, len(books))
	for _, b := range books {
		if _, ok := members[b.Category]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Title returns the grid heading for selected.
func Title(selected string) string {
	if selected == None {
		return DefaultTitle
	}
	return selected + " Books"
}
