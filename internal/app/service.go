// Package service provides the storefront service that the HTTP and terminal
// adapters browse the catalog through.
package service

import (
	"context"
	"sync"

	"github.com/okian/lumina/internal/adapters/fixture"
	"github.com/okian/lumina/internal/adapters/navigation"
	"github.com/okian/lumina/internal/adapters/session"
	"github.com/okian/lumina/internal/domain/catalog"
	"github.com/okian/lumina/internal/domain/filter"
	"github.com/okian/lumina/internal/domain/search"
	"github.com/okian/lumina/internal/domain/selection"
	"github.com/okian/lumina/internal/domain/types"
	"github.com/okian/lumina/pkg/logger"
	"github.com/okian/lumina/pkg/metrics"
)

// DefaultCartCount is the static badge count shown in the header.
const DefaultCartCount = 2

// Service implements the storefront dependencies for the adapters.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    fixture.Store
	sessions *session.Registry

	// Configuration
	maxSessions int
	cartCount   int
	nav         selection.Navigator

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxSessions bounds the number of browsing sessions kept in memory.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithCartCount sets the static cart badge count.
func WithCartCount(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.cartCount = n
		}
	}
}

// WithNavigator adds a navigator that observes every session's navigation
// intents.
func WithNavigator(n selection.Navigator) Option {
	return func(s *Service) {
		if n != nil {
			s.nav = n
		}
	}
}

// New constructs a Service over store.
func New(store fixture.Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		maxSessions: session.DefaultMaxSessions,
		cartCount:   DefaultCartCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates the session registry.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	cat := s.store.Catalog(ctx)
	s.logger.Info(ctx, "starting storefront service...")

	next := s.nav
	if next == nil {
		next = navigation.Func(func(context.Context, string) {})
	}
	s.sessions = session.NewRegistry(cat,
		session.WithMaxSessions(s.maxSessions),
		session.WithNavigator(navigation.Logging(next, s.logger.Named("navigation"))),
		session.WithLogger(s.logger.Named("session")),
	)

	books, categories := catalogSize(cat)
	metrics.UpdateCatalogSize(books, categories)

	s.started = true
	s.logger.Info(ctx, "storefront service started",
		logger.Int("books", books),
		logger.Int("categories", categories),
		logger.Int("maxSessions", s.maxSessions),
	)
	return nil
}

// Stop ends all sessions, releasing their listeners.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping storefront service...")
	s.sessions.Close()
	s.started = false
	s.logger.Info(context.Background(), "storefront service stopped")
}

// Sessions returns the session registry. It is nil until Start.
func (s *Service) Sessions() *session.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions
}

// Catalog returns the loaded catalog.
func (s *Service) Catalog(ctx context.Context) *catalog.Catalog {
	return s.store.Catalog(ctx)
}

// Search runs the suggestion matcher for q against the whole catalog.
func (s *Service) Search(ctx context.Context, q string) search.Result {
	res := search.Match(q, s.store.Catalog(ctx).Books)
	recordSearch(res)
	return res
}

// Books returns the product grid for category ("" for none) and its heading.
func (s *Service) Books(ctx context.Context, category string) ([]catalog.Book, string) {
	cat := s.store.Catalog(ctx)
	books := filter.Filter(category, cat.Books, cat.Categories)
	recordFilter(category, len(books))
	return books, filter.Title(category)
}

// Book returns one book by id.
func (s *Service) Book(ctx context.Context, id string) (catalog.Book, error) {
	return s.store.Book(ctx, id)
}

// Categories returns the top-level category tree.
func (s *Service) Categories(ctx context.Context) []catalog.Category {
	return s.store.Catalog(ctx).Categories
}

// FeaturedAuthor returns the author spotlight.
func (s *Service) FeaturedAuthor(ctx context.Context) catalog.Author {
	return s.store.Catalog(ctx).FeaturedAuthor
}

// CartCount returns the static cart badge count.
func (s *Service) CartCount() int { return s.cartCount }

// View renders sess. Call it outside Do; it takes the session lock itself.
func (s *Service) View(sess *session.Session) types.View {
	var v types.View
	sess.Do(func(c *selection.Controller) { v = s.ViewOf(c) })
	return v
}

// ViewOf renders a controller the caller already holds exclusively.
func (s *Service) ViewOf(c *selection.Controller) types.View {
	v := types.View{
		State:       c.State(),
		Suggestions: c.Suggestions(),
		Books:       c.VisibleBooks(),
		Title:       c.Title(),
		CartCount:   s.cartCount,
	}
	if v.State.SuggestionsOpen {
		recordSearch(v.Suggestions)
	}
	recordFilter(v.State.Category, len(v.Books))
	return v
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books, categories := catalogSize(s.store.Catalog(context.Background()))
	stats := map[string]interface{}{
		"started":     s.started,
		"books":       books,
		"categories":  categories,
		"maxSessions": s.maxSessions,
		"cartCount":   s.cartCount,
	}

	if s.started {
		active := s.sessions.Len()
		stats["activeSessions"] = active
		metrics.UpdateSessionsActive(active)
	}

	return stats
}

func catalogSize(cat *catalog.Catalog) (books, categories int) {
	for _, c := range cat.Categories {
		categories += 1 + len(c.Subcategories)
	}
	return len(cat.Books), categories
}

func recordSearch(res search.Result) {
	switch {
	case !res.Active:
		metrics.RecordSearch(metrics.SearchInactive, 0)
	case res.Empty():
		metrics.RecordSearch(metrics.SearchEmpty, 0)
	default:
		metrics.RecordSearch(metrics.SearchMatched, len(res.Books))
	}
}

func recordFilter(category string, n int) {
	scope := "category"
	if category == filter.None {
		scope = "all"
	}
	metrics.RecordFilter(scope, n)
}
