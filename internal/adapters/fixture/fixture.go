// Package fixture loads the storefront catalog once at startup and serves it
// read-only for the life of the process.
package fixture

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/okian/lumina/internal/domain/catalog"
)

//go:embed data/catalog.json
var defaultCatalog []byte

//go:embed data/catalog.schema.json
var schemaDocument []byte

// Store provides read access to the loaded catalog.
type Store interface {
	// Catalog returns the catalog. Callers must not mutate it.
	Catalog(ctx context.Context) *catalog.Catalog
	// Book returns one book. Returns an error wrapping catalog.ErrBookNotFound
	// if the id is unknown.
	Book(ctx context.Context, id string) (catalog.Book, error)
}

// MemoryStore is a Store over a catalog held in memory.
type MemoryStore struct {
	cat *catalog.Catalog
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore wraps an already validated catalog.
func NewMemoryStore(cat *catalog.Catalog) *MemoryStore {
	return &MemoryStore{cat: cat}
}

// Catalog returns the loaded catalog.
func (s *MemoryStore) Catalog(_ context.Context) *catalog.Catalog { return s.cat }

// Book looks up a book by id.
func (s *MemoryStore) Book(_ context.Context, id string) (catalog.Book, error) {
	return s.cat.BookByID(id)
}

// Load reads the catalog at path, or the embedded default when path is empty.
// Files ending in .yaml or .yml are decoded as YAML, everything else as JSON.
func Load(ctx context.Context, path string) (*MemoryStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFixture, err)
	}

	data, format := defaultCatalog, FormatJSON
	if path != "" {
		raw, err := os.ReadFile(path) //nolint:gosec // operator-supplied fixture path
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrLoadFixture, path, err)
		}
		data, format = raw, formatFor(path)
	}

	cat, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(cat), nil
}

// Format names a fixture encoding.
type Format string

// Supported fixture encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes, schema-checks, sanitizes and validates a fixture document.
func Parse(data []byte, format Format) (*catalog.Catalog, error) {
	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %w", ErrLoadFixture, err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: decode json: %w", ErrLoadFixture, err)
		}
	}

	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	// The document already passed the schema, so the typed decode only
	// moves values into place.
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: normalize: %w", ErrLoadFixture, err)
	}
	var cat catalog.Catalog
	if err := json.Unmarshal(normalized, &cat); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %w", ErrInvalidFixture, err)
	}

	sanitize(&cat)

	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFixture, err)
	}
	return &cat, nil
}

func validateSchema(doc any) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaDocument))
	if err != nil {
		return fmt.Errorf("%w: compile schema: %w", ErrLoadFixture, err)
	}
	res, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFixture, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidFixture, strings.Join(msgs, "; "))
}

// sanitize strips markup from the free-text fields. Titles and names are
// matched by search, so they are cleaned too.
func sanitize(cat *catalog.Catalog) {
	p := bluemonday.StrictPolicy()
	clean := func(s string) string {
		// StrictPolicy escapes what it keeps; templates escape again on output.
		return html.UnescapeString(p.Sanitize(s))
	}
	for i := range cat.Books {
		b := &cat.Books[i]
		b.Title = clean(b.Title)
		b.Author = clean(b.Author)
		b.Description = clean(b.Description)
	}
	a := &cat.FeaturedAuthor
	a.Name = clean(a.Name)
	a.Bio = clean(a.Bio)
	for i, w := range a.NotableWorks {
		a.NotableWorks[i] = clean(w)
	}
}
