// Package site serves the server-rendered storefront pages.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okian/lumina/internal/adapters/navigation"
	"github.com/okian/lumina/internal/adapters/session"
	"github.com/okian/lumina/internal/domain/catalog"
	"github.com/okian/lumina/internal/domain/filter"
	"github.com/okian/lumina/internal/domain/selection"
	"github.com/okian/lumina/internal/domain/types"
	"github.com/okian/lumina/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Error constants.
var (
	ErrTemplate = errors.New("site template failed")
)

// Dependencies the pages render from.
type Dependencies interface {
	Book(ctx context.Context, id string) (catalog.Book, error)
	Categories(ctx context.Context) []catalog.Category
	FeaturedAuthor(ctx context.Context) catalog.Author
	ViewOf(c *selection.Controller) types.View
}

// SessionResolver binds a request to the visitor's browsing session.
type SessionResolver interface {
	Resolve(w http.ResponseWriter, r *http.Request) (*session.Session, error)
}

// Handler renders the storefront and applies form actions.
type Handler struct {
	deps     Dependencies
	sessions SessionResolver
	pages    map[string]*template.Template
	log      logger.Logger
}

type page struct {
	PageTitle  string
	View       types.View
	Author     catalog.Author
	Categories []catalog.Category
	Book       catalog.Book
}

var funcs = template.FuncMap{
	"stars":  catalog.Stars,
	"rating": func(r float64) string { return fmt.Sprintf("%.1f", r) },
	"price":  func(p float64) string { return fmt.Sprintf("$%.2f", p) },
}

// New parses the embedded templates.
func New(deps Dependencies, sessions SessionResolver, log logger.Logger) (*Handler, error) {
	if log == nil {
		log = logger.NewNop()
	}
	base, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("%w: layout: %w", ErrTemplate, err)
	}
	pages := make(map[string]*template.Template, 2)
	for _, name := range []string{"index", "book"} {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("%w: clone: %w", ErrTemplate, err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTemplate, name, err)
		}
		pages[name] = t
	}
	return &Handler{deps: deps, sessions: sessions, pages: pages, log: log}, nil
}

// Register attaches the storefront routes to r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/", h.HandleIndex).Methods(http.MethodGet)
	r.HandleFunc("/books/{id}", h.HandleBook).Methods(http.MethodGet)

	a := r.PathPrefix("/actions").Methods(http.MethodPost).Subrouter()
	a.HandleFunc("/category", h.action(func(r *http.Request, c *selection.Controller) {
		name := r.PostFormValue("name")
		if name == "" {
			name = filter.None
		}
		c.SelectCategory(name)
	}))
	a.HandleFunc("/expand", h.action(func(r *http.Request, c *selection.Controller) {
		if id := r.PostFormValue("id"); id != "" {
			c.ToggleExpand(id)
		}
	}))
	a.HandleFunc("/query", h.action(func(r *http.Request, c *selection.Controller) {
		c.SetQuery(r.PostFormValue("q"))
	}))
	a.HandleFunc("/clear", h.action(func(_ *http.Request, c *selection.Controller) { c.ClearQuery() }))
	a.HandleFunc("/focus", h.action(func(_ *http.Request, c *selection.Controller) { c.FocusSearch() }))
	a.HandleFunc("/menu", h.action(func(r *http.Request, c *selection.Controller) {
		if r.PostFormValue("op") == "close" {
			c.CloseMobileMenu()
			return
		}
		c.ToggleMobileMenu()
	}))
	a.HandleFunc("/dismiss", h.HandleDismiss)
	a.HandleFunc("/select", h.HandleSelect)
}

// HandleIndex handles GET / requests.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	p := page{
		PageTitle:  "Storefront",
		Author:     h.deps.FeaturedAuthor(r.Context()),
		Categories: h.deps.Categories(r.Context()),
	}
	sess.Do(func(c *selection.Controller) { p.View = h.deps.ViewOf(c) })
	h.render(w, r, "index", http.StatusOK, p)
}

// HandleBook handles GET /books/{id} requests, the navigation target of a
// picked suggestion.
func (h *Handler) HandleBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.deps.Book(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	p := page{PageTitle: book.Title, Book: book}
	sess.Do(func(c *selection.Controller) { p.View = h.deps.ViewOf(c) })
	h.render(w, r, "book", http.StatusOK, p)
}

// HandleDismiss handles POST /actions/dismiss: an interaction outside the
// search box.
func (h *Handler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	sess.OutsideClick()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleSelect handles POST /actions/select and redirects to the book page.
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	id := r.PostFormValue("book_id")
	if _, err := h.deps.Book(r.Context(), id); err != nil {
		http.NotFound(w, r)
		return
	}
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var (
		target string
		found  bool
	)
	sess.Do(func(c *selection.Controller) {
		c.SelectSearchResult(r.Context(), id)
		target, found = sess.Navigation()
	})
	if !found {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, navigation.BookPath(target), http.StatusSeeOther)
}

// action applies one transition and redirects back to the storefront.
func (h *Handler) action(fn func(r *http.Request, c *selection.Controller)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		sess, ok := h.resolve(w, r)
		if !ok {
			return
		}
		sess.Do(func(c *selection.Controller) { fn(r, c) })
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.sessions.Resolve(w, r)
	if err != nil {
		h.log.Error(r.Context(), "resolve session failed", logger.Error(err))
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, status int, p page) {
	var buf bytes.Buffer
	if err := h.pages[name].ExecuteTemplate(&buf, "layout", p); err != nil {
		h.log.Error(r.Context(), "render page failed", logger.String("page", name), logger.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
