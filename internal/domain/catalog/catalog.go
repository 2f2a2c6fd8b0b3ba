// Package catalog contains the immutable book, category and author records
// that every storefront view is computed from.
package catalog

import (
	"fmt"
	"math"
	"strings"
)

// Rating bounds for a book.
const (
	MinRating = 0
	MaxRating = 5
)

// Book is a single catalog entry. Books are loaded once and never mutated.
type Book struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	CoverURL    string  `json:"coverUrl"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
	BestSeller  bool    `json:"isBestSeller"` // display only
	Category    string  `json:"category"`     // category name, not id
	Description string  `json:"description"`
}

// Category is a node in the category tree. Name is the matching key.
type Category struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Subcategories []Category `json:"subcategories,omitempty"`
}

// Stars renders rating as a five-star bar. Only whole stars are filled.
func Stars(rating float64) string {
	filled := max(0, min(MaxRating, int(math.Floor(rating))))
	return strings.Repeat("★", filled) + strings.Repeat("☆", MaxRating-filled)
}

// HasSubcategories reports whether the category can be expanded.
func (c Category) HasSubcategories() bool { return len(c.Subcategories) > 0 }

// Author is the featured "writer of the month".
type Author struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ImageURL     string   `json:"imageUrl"`
	Bio          string   `json:"bio"`
	NotableWorks []string `json:"notableWorks"`
}

// Catalog is the whole fixture: books in catalog order, the top-level
// categories in display order, and the featured author.
type Catalog struct {
	Books          []Book     `json:"books"`
	Categories     []Category `json:"categories"`
	FeaturedAuthor Author     `json:"featuredAuthor"`
}

// BookByID returns the book with the given id.
func (c *Catalog) BookByID(id string) (Book, error) {
	for _, b := range c.Books {
		if b.ID == id {
			return b, nil
		}
	}
	return Book{}, fmt.Errorf("book %q: %w", id, ErrBookNotFound)
}

// CategoryByID looks up a top-level category or one of its direct
// subcategories.
func (c *Catalog) CategoryByID(id string) (Category, bool) {
	for _, top := range c.Categories {
		if top.ID == id {
			return top, true
		}
		for _, sub := range top.Subcategories {
			if sub.ID == id {
				return sub, true
			}
		}
	}
	return Category{}, false
}

// Validate checks the fixture invariants. Only the first two levels of the
// category tree are considered when resolving a book's category.
func (c *Catalog) Validate() error {
	names := make(map[string]struct{})
	catIDs := make(map[string]struct{})
	for _, top := range c.Categories {
		if err := checkCategory(top, catIDs); err != nil {
			return err
		}
		names[top.Name] = struct{}{}
		for _, sub := range top.Subcategories {
			if err := checkCategory(sub, catIDs); err != nil {
				return err
			}
			names[sub.Name] = struct{}{}
		}
	}

	bookIDs := make(map[string]struct{}, len(c.Books))
	for _, b := range c.Books {
		if strings.TrimSpace(b.ID) == "" {
			return fmt.Errorf("book %q has empty id: %w", b.Title, ErrInvalidCatalog)
		}
		if _, dup := bookIDs[b.ID]; dup {
			return fmt.Errorf("duplicate book id %q: %w", b.ID, ErrInvalidCatalog)
		}
		bookIDs[b.ID] = struct{}{}

		switch {
		case b.Price < 0:
			return fmt.Errorf("book %q: negative price: %w", b.ID, ErrInvalidCatalog)
		case b.Rating < MinRating || b.Rating > MaxRating:
			return fmt.Errorf("book %q: rating %.2f out of range: %w", b.ID, b.Rating, ErrInvalidCatalog)
		case b.ReviewCount < 0:
			return fmt.Errorf("book %q: negative review count: %w", b.ID, ErrInvalidCatalog)
		}
		if _, ok := names[b.Category]; !ok {
			return fmt.Errorf("book %q: unknown category %q: %w", b.ID, b.Category, ErrInvalidCatalog)
		}
	}

	if strings.TrimSpace(c.FeaturedAuthor.ID) == "" || strings.TrimSpace(c.FeaturedAuthor.Name) == "" {
		return fmt.Errorf("featured author needs id and name: %w", ErrInvalidCatalog)
	}
	return nil
}

func checkCategory(cat Category, seen map[string]struct{}) error {
	if strings.TrimSpace(cat.ID) == "" || strings.TrimSpace(cat.Name) == "" {
		return fmt.Errorf("category needs id and name: %w", ErrInvalidCatalog)
	}
	if _, dup := seen[cat.ID]; dup {
		return fmt.Errorf("duplicate category id %q: %w", cat.ID, ErrInvalidCatalog)
	}
	seen[cat.ID] = struct{}{}
	return nil
}
