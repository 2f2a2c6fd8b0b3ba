package api

import (
	"encoding/json"
	"fmt"
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

// SessionHandler applies selection transitions to the caller's session and
// answers with the resulting view.
type SessionHandler struct {
	deps     Dependencies
	sessions SessionResolver
	log      logger.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps Dependencies, sessions SessionResolver) *SessionHandler {
	return &SessionHandler{deps: deps, sessions: sessions, log: logger.NewNop()}
}

type categoryRequest struct {
	Name *string `json:"name"`
}

type queryRequest struct {
	Query *string `json:"query"`
}

type selectRequest struct {
	BookID string `json:"book_id"`
}

// transition resolves the session, runs fn under its lock and writes the
// view that results.
func (h *SessionHandler) transition(w http.ResponseWriter, r *http.Request, fn func(c *selection.Controller)) {
	sess, err := h.sessions.Resolve(w, r)
	if err != nil {
		h.log.Error(r.Context(), "resolve session failed", logger.Error(err))
		writeErr(w, err)
		return
	}
	var view types.View
	sess.Do(func(c *selection.Controller) {
		if fn != nil {
			fn(c)
		}
		view = h.deps.ViewOf(c)
	})
	writeJSON(w, http.StatusOK, view)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// HandleGetSession handles GET /api/session requests.
func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, nil)
}

// HandleSelectCategory handles POST /api/session/category requests. A null
// or empty name clears the selection.
func (h *SessionHandler) HandleSelectCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	name := filter.None
	if req.Name != nil {
		name = *req.Name
	}
	h.transition(w, r, func(c *selection.Controller) { c.SelectCategory(name) })
}

// HandleToggleExpand handles POST /api/session/categories/{id}/toggle requests.
func (h *SessionHandler) HandleToggleExpand(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	tree := &catalog.Catalog{Categories: h.deps.Categories(r.Context())}
	if _, ok := tree.CategoryByID(id); !ok {
		writeErr(w, fmt.Errorf("%w: category %q", ErrNotFound, id))
		return
	}
	h.transition(w, r, func(c *selection.Controller) { c.ToggleExpand(id) })
}

// HandleSetQuery handles PUT /api/session/query requests.
func (h *SessionHandler) HandleSetQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if req.Query == nil {
		writeErr(w, fmt.Errorf("%w: missing query", ErrBadRequest))
		return
	}
	h.transition(w, r, func(c *selection.Controller) { c.SetQuery(*req.Query) })
}

// HandleClearQuery handles DELETE /api/session/query requests.
func (h *SessionHandler) HandleClearQuery(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(c *selection.Controller) { c.ClearQuery() })
}

// HandleFocus handles POST /api/session/search/focus requests.
func (h *SessionHandler) HandleFocus(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(c *selection.Controller) { c.FocusSearch() })
}

// HandleDismiss handles POST /api/session/search/dismiss requests: the
// client saw an interaction outside the search box.
func (h *SessionHandler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Resolve(w, r)
	if err != nil {
		writeErr(w, err)
		return
	}
	sess.OutsideClick()
	h.writeView(w, sess)
}

// HandleSelect handles POST /api/session/search/select requests.
func (h *SessionHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if req.BookID == "" {
		writeErr(w, fmt.Errorf("%w: missing book_id", ErrBadRequest))
		return
	}
	if _, err := h.deps.Book(r.Context(), req.BookID); err != nil {
		writeErr(w, err)
		return
	}

	sess, err := h.sessions.Resolve(w, r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var (
		target string
		ok     bool
	)
	sess.Do(func(c *selection.Controller) {
		c.SelectSearchResult(r.Context(), req.BookID)
		target, ok = sess.Navigation()
	})
	if !ok {
		writeErr(w, fmt.Errorf("no navigation produced for %q", req.BookID))
		return
	}
	writeJSON(w, http.StatusOK, types.Navigate{Navigate: navigation.BookPath(target), BookID: target})
}

// HandleToggleMenu handles POST /api/session/menu/toggle requests.
func (h *SessionHandler) HandleToggleMenu(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(c *selection.Controller) { c.ToggleMobileMenu() })
}

// HandleCloseMenu handles POST /api/session/menu/close requests.
func (h *SessionHandler) HandleCloseMenu(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(c *selection.Controller) { c.CloseMobileMenu() })
}

func (h *SessionHandler) writeView(w http.ResponseWriter, sess *session.Session) {
	var view types.View
	sess.Do(func(c *selection.Controller) { view = h.deps.ViewOf(c) })
	writeJSON(w, http.StatusOK, view)
}
