package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okian/lumina/internal/domain/types"
)

// CatalogHandler serves stateless catalog reads.
type CatalogHandler struct {
	deps Dependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps Dependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleListBooks handles GET /api/catalog/books?category= requests.
// Without a category the whole catalog is returned.
func (h *CatalogHandler) HandleListBooks(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	books, title := h.deps.Books(r.Context(), category)
	writeJSON(w, http.StatusOK, types.NewBookList(category, title, books))
}

// HandleGetBook handles GET /api/catalog/books/{id} requests.
func (h *CatalogHandler) HandleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.deps.Book(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// HandleCategories handles GET /api/catalog/categories requests.
func (h *CatalogHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Categories(r.Context()))
}

// HandleAuthor handles GET /api/catalog/author requests.
func (h *CatalogHandler) HandleAuthor(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.FeaturedAuthor(r.Context()))
}

// HandleSearch handles GET /api/catalog/search?q= requests. The query is
// passed through untrimmed; only the blank check ignores surrounding space.
func (h *CatalogHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Search(r.Context(), r.URL.Query().Get("q")))
}
