package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/lumina/internal/adapters/fixture"
	"github.com/okian/lumina/internal/adapters/session"
	service "github.com/okian/lumina/internal/app"
	"github.com/okian/lumina/internal/domain/catalog"
	"github.com/okian/lumina/pkg/logger"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Books: []catalog.Book{
			{ID: "1", Title: "Dune", Author: "Herbert", Category: "Sci-Fi", Price: 12.5, Rating: 4.8, BestSeller: true},
			{ID: "2", Title: "Hobbit", Author: "Tolkien", Category: "Fantasy", Price: 10, Rating: 3.2},
		},
		Categories: []catalog.Category{
			{ID: "fic", Name: "Fiction", Subcategories: []catalog.Category{
				{ID: "sf", Name: "Sci-Fi"},
				{ID: "fan", Name: "Fantasy"},
			}},
			{ID: "poe", Name: "Poetry"},
		},
		FeaturedAuthor: catalog.Author{ID: "a", Name: "Frank Herbert", Bio: "Wrote Dune", NotableWorks: []string{"Dune"}},
	}
}

type browser struct {
	router  http.Handler
	cookies []*http.Cookie
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.send(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.send(req)
}

func (b *browser) send(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)
	if set := w.Result().Cookies(); len(set) > 0 {
		b.cookies = set
	}
	return w
}

func newBrowser() *browser {
	svc := service.New(fixture.NewMemoryStore(testCatalog()), service.WithLogger(logger.NewNop()))
	So(svc.Start(context.Background()), ShouldBeNil)
	mgr := session.NewManager(svc.Sessions(), nil)

	h, err := New(svc, mgr, nil)
	So(err, ShouldBeNil)
	r := mux.NewRouter()
	h.Register(r)
	return &browser{router: r}
}

func TestStorefrontPage(t *testing.T) {
	Convey("Given a fresh visitor", t, func() {
		b := newBrowser()
		w := b.get("/")
		body := w.Body.String()

		Convey("Then the storefront renders every section", func() {
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(body, ShouldContainSubstring, "New Arrivals &amp; Best Sellers")
			So(body, ShouldContainSubstring, "2 items")
			So(body, ShouldContainSubstring, `class="cart-badge">2<`)
			So(body, ShouldContainSubstring, "Frank Herbert")
			So(body, ShouldContainSubstring, "Best Seller")
			So(body, ShouldContainSubstring, "$12.50")
			So(body, ShouldContainSubstring, "4.8")
			So(body, ShouldNotContainSubstring, "Sci-Fi</button>")
		})

		Convey("When the visitor expands Fiction", func() {
			w := b.post("/actions/expand", url.Values{"id": {"fic"}})
			So(w.Code, ShouldEqual, http.StatusSeeOther)

			Convey("Then subcategories are listed", func() {
				So(b.get("/").Body.String(), ShouldContainSubstring, "Sci-Fi</button>")
			})
		})

		Convey("When the visitor picks an empty category", func() {
			b.post("/actions/category", url.Values{"name": {"Poetry"}})
			body := b.get("/").Body.String()

			Convey("Then the grid shows the empty message", func() {
				So(body, ShouldContainSubstring, "Poetry Books")
				So(body, ShouldContainSubstring, "No books found matching this criteria.")
			})
		})

		Convey("When the visitor searches", func() {
			w := b.post("/actions/query", url.Values{"q": {"du"}})
			So(w.Code, ShouldEqual, http.StatusSeeOther)
			So(w.Header().Get("Location"), ShouldEqual, "/")
			body := b.get("/").Body.String()

			Convey("Then suggestions appear", func() {
				So(body, ShouldContainSubstring, `class="suggestion"`)
				So(body, ShouldContainSubstring, "by Herbert")
			})

			Convey("Then picking one navigates to the book", func() {
				w := b.post("/actions/select", url.Values{"book_id": {"1"}})
				So(w.Code, ShouldEqual, http.StatusSeeOther)
				So(w.Header().Get("Location"), ShouldEqual, "/books/1")

				page := b.get("/books/1")
				So(page.Code, ShouldEqual, http.StatusOK)
				So(page.Body.String(), ShouldContainSubstring, "<h1>Dune</h1>")
				So(b.get("/").Body.String(), ShouldNotContainSubstring, `class="suggestion"`)
			})

			Convey("Then an outside click hides them until focus", func() {
				b.post("/actions/dismiss", nil)
				body := b.get("/").Body.String()
				So(body, ShouldNotContainSubstring, `class="suggestion"`)
				So(body, ShouldContainSubstring, "Show suggestions")

				b.post("/actions/focus", nil)
				So(b.get("/").Body.String(), ShouldContainSubstring, `class="suggestion"`)
			})
		})

		Convey("When a search matches nothing", func() {
			b.post("/actions/query", url.Values{"q": {"zzz"}})

			Convey("Then the panel says so", func() {
				So(b.get("/").Body.String(), ShouldContainSubstring, "No books found for &#34;zzz&#34;")
			})
		})

		Convey("When the menu is toggled", func() {
			b.post("/actions/menu", url.Values{"op": {"toggle"}})
			So(b.get("/").Body.String(), ShouldContainSubstring, `id="sidebar" class="open"`)

			b.post("/actions/category", url.Values{"name": {"Fantasy"}})
			So(b.get("/").Body.String(), ShouldContainSubstring, `id="sidebar" class="closed"`)
		})

		Convey("When an unknown book is requested", func() {
			So(b.get("/books/99").Code, ShouldEqual, http.StatusNotFound)
			So(b.post("/actions/select", url.Values{"book_id": {"99"}}).Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
