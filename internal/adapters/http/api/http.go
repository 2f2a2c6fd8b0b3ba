// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/okian/lumina/internal/adapters/session"
	"github.com/okian/lumina/internal/domain/catalog"
	"github.com/okian/lumina/internal/domain/search"
	"github.com/okian/lumina/internal/domain/selection"
	"github.com/okian/lumina/internal/domain/types"
	"github.com/okian/lumina/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Stateless catalog reads.
	Search(ctx context.Context, q string) search.Result
	Books(ctx context.Context, category string) ([]catalog.Book, string)
	Book(ctx context.Context, id string) (catalog.Book, error)
	Categories(ctx context.Context) []catalog.Category
	FeaturedAuthor(ctx context.Context) catalog.Author

	// ViewOf renders a session's controller; the caller holds the session.
	ViewOf(c *selection.Controller) types.View
}

// SessionResolver binds a request to the visitor's browsing session.
type SessionResolver interface {
	Resolve(w http.ResponseWriter, r *http.Request) (*session.Session, error)
}

// Server wires HTTP routes for the storefront API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	catalogHandler *CatalogHandler
	sessionHandler *SessionHandler

	limiter *rate.Limiter
	log     logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, sessions SessionResolver, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		catalogHandler: NewCatalogHandler(deps),
		sessionHandler: NewSessionHandler(deps, sessions),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.NewNop()
	}
	s.sessionHandler.log = s.log
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)

	route := func(path, endpoint string, h http.HandlerFunc, methods ...string) {
		r.HandleFunc(path, MetricsMiddleware(s.rateLimit(h, endpoint), endpoint)).Methods(methods...)
	}

	c := s.catalogHandler
	route("/api/catalog/books", "catalog_books", c.HandleListBooks, http.MethodGet)
	route("/api/catalog/books/{id}", "catalog_book", c.HandleGetBook, http.MethodGet)
	route("/api/catalog/categories", "catalog_categories", c.HandleCategories, http.MethodGet)
	route("/api/catalog/author", "catalog_author", c.HandleAuthor, http.MethodGet)
	route("/api/catalog/search", "catalog_search", c.HandleSearch, http.MethodGet)

	h := s.sessionHandler
	route("/api/session", "session", h.HandleGetSession, http.MethodGet)
	route("/api/session/category", "session_category", h.HandleSelectCategory, http.MethodPost)
	route("/api/session/categories/{id}/toggle", "session_toggle", h.HandleToggleExpand, http.MethodPost)
	route("/api/session/query", "session_query", h.HandleSetQuery, http.MethodPut)
	route("/api/session/query", "session_query", h.HandleClearQuery, http.MethodDelete)
	route("/api/session/search/focus", "session_focus", h.HandleFocus, http.MethodPost)
	route("/api/session/search/dismiss", "session_dismiss", h.HandleDismiss, http.MethodPost)
	route("/api/session/search/select", "session_select", h.HandleSelect, http.MethodPost)
	route("/api/session/menu/toggle", "session_menu", h.HandleToggleMenu, http.MethodPost)
	route("/api/session/menu/close", "session_menu", h.HandleCloseMenu, http.MethodPost)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeErr maps err onto the API's status codes.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ErrNotFound), errors.Is(err, catalog.ErrBookNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "rate_limited", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
