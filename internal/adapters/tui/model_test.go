package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/lumina/internal/domain/catalog"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Books: []catalog.Book{
			{ID: "1", Title: "Dune", Author: "Herbert", Category: "Sci-Fi", Rating: 4.5, Price: 9.99, BestSeller: true},
			{ID: "2", Title: "Hobbit", Author: "Tolkien", Category: "Fantasy", Rating: 5, Price: 12},
			{ID: "3", Title: "Dune Messiah", Author: "Herbert", Category: "Sci-Fi", Rating: 4, Price: 8},
			{ID: "4", Title: "Cosmos", Author: "Sagan", Category: "Science", Rating: 4.7, Price: 15},
		},
		Categories: []catalog.Category{
			{ID: "fic", Name: "Fiction", Subcategories: []catalog.Category{
				{ID: "sf", Name: "Sci-Fi"},
				{ID: "fan", Name: "Fantasy"},
			}},
			{ID: "sci", Name: "Science"},
		},
		FeaturedAuthor: catalog.Author{ID: "a", Name: "Frank Herbert", Bio: "Wrote Dune", NotableWorks: []string{"Dune"}},
	}
}

func press(m *Model, keys ...tea.KeyMsg) {
	for _, k := range keys {
		m.Update(k)
	}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

var (
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestModel_Search(t *testing.T) {
	Convey("Given a fresh browser", t, func() {
		m := New(context.Background(), testCatalog())
		defer m.Close()

		So(m.Focus(), ShouldEqual, PaneSearch)
		So(m.View(), ShouldContainSubstring, "New Arrivals & Best Sellers")
		So(m.View(), ShouldContainSubstring, "🛒 2")

		Convey("When typing a query", func() {
			typeText(m, "du")

			Convey("Then suggestions open and the listener is attached", func() {
				st := m.Controller().State()
				So(st.Query, ShouldEqual, "du")
				So(st.SuggestionsOpen, ShouldBeTrue)
				So(m.Controller().ListenerAttached(), ShouldBeTrue)
				So(m.View(), ShouldContainSubstring, "Dune Messiah by Herbert")
			})

			Convey("Then leaving the search pane dismisses them", func() {
				press(m, tab)
				So(m.Focus(), ShouldEqual, PaneCategories)
				st := m.Controller().State()
				So(st.SuggestionsOpen, ShouldBeFalse)
				So(st.Query, ShouldEqual, "du")
				So(m.Controller().ListenerAttached(), ShouldBeFalse)
				So(m.watcher.attached(), ShouldBeFalse)

				Convey("And returning reopens them", func() {
					press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
					So(m.Focus(), ShouldEqual, PaneSearch)
					So(m.Controller().State().SuggestionsOpen, ShouldBeTrue)
				})
			})

			Convey("Then picking a suggestion opens the book", func() {
				press(m, down, enter)
				book, ok := m.Detail()
				So(ok, ShouldBeTrue)
				So(book.ID, ShouldEqual, "3")
				So(m.View(), ShouldContainSubstring, "Dune Messiah")

				st := m.Controller().State()
				So(st.Query, ShouldEqual, "")
				So(st.SuggestionsOpen, ShouldBeFalse)

				press(m, esc)
				_, ok = m.Detail()
				So(ok, ShouldBeFalse)
			})

			Convey("Then escape clears the query", func() {
				press(m, esc)
				So(m.Controller().State().Query, ShouldEqual, "")
				So(m.Controller().ListenerAttached(), ShouldBeFalse)
			})
		})

		Convey("When a query matches nothing", func() {
			typeText(m, "zzz")
			So(m.View(), ShouldContainSubstring, `No books found for "zzz"`)
		})

		Convey("When typing q and m into the search box", func() {
			typeText(m, "qm")
			So(m.quitting, ShouldBeFalse)
			So(m.Controller().State().MenuOpen, ShouldBeFalse)
			So(m.Controller().State().Query, ShouldEqual, "qm")
		})
	})
}

func TestModel_Categories(t *testing.T) {
	Convey("Given the categories pane is focused", t, func() {
		m := New(context.Background(), testCatalog())
		defer m.Close()
		press(m, tab)
		So(m.Focus(), ShouldEqual, PaneCategories)

		Convey("When Fiction is expanded and selected", func() {
			press(m, down, space)
			So(m.Controller().State().IsExpanded("fic"), ShouldBeTrue)
			So(m.View(), ShouldContainSubstring, "Sci-Fi")

			press(m, enter)

			Convey("Then the grid shows Fiction and its direct subcategories", func() {
				So(m.Controller().State().Category, ShouldEqual, "Fiction")
				So(m.Controller().VisibleBooks(), ShouldHaveLength, 3)
				So(m.View(), ShouldContainSubstring, "Fiction Books")
			})

			Convey("Then a subcategory narrows the grid", func() {
				press(m, down, enter)
				So(m.Controller().State().Category, ShouldEqual, "Sci-Fi")
				So(m.Controller().VisibleBooks(), ShouldHaveLength, 2)
			})

			Convey("Then collapsing hides the subcategories", func() {
				press(m, tea.KeyMsg{Type: tea.KeyLeft})
				So(m.Controller().State().IsExpanded("fic"), ShouldBeFalse)
			})
		})

		Convey("When a leaf category is toggled", func() {
			press(m, down, down, space)
			So(m.Controller().State().Expanded, ShouldBeEmpty)
		})

		Convey("When All Books is selected", func() {
			press(m, down, enter, tea.KeyMsg{Type: tea.KeyUp}, enter)
			So(m.Controller().State().Category, ShouldEqual, "")
			So(m.Controller().VisibleBooks(), ShouldHaveLength, 4)
		})
	})
}

func TestModel_NarrowTerminal(t *testing.T) {
	Convey("Given a narrow terminal", t, func() {
		m := New(context.Background(), testCatalog(), WithSize(60, 30), WithCartCount(7))
		defer m.Close()
		So(m.View(), ShouldNotContainSubstring, "Author of the Month")
		So(m.View(), ShouldContainSubstring, "🛒 7")

		Convey("Then tab skips the hidden sidebar", func() {
			press(m, tab)
			So(m.Focus(), ShouldEqual, PaneGrid)
		})

		Convey("Then the menu reveals the sidebar and selecting closes it", func() {
			press(m, tab, runes("m"))
			So(m.Controller().State().MenuOpen, ShouldBeTrue)
			So(m.View(), ShouldContainSubstring, "Author of the Month")

			press(m, tab)
			So(m.Focus(), ShouldEqual, PaneSearch)
			press(m, tab)
			So(m.Focus(), ShouldEqual, PaneCategories)

			press(m, down, down, enter)
			So(m.Controller().State().Category, ShouldEqual, "Science")
			So(m.Controller().State().MenuOpen, ShouldBeFalse)
			So(m.Focus(), ShouldEqual, PaneGrid)
		})
	})
}

func TestModel_Grid(t *testing.T) {
	Convey("Given the grid is focused", t, func() {
		m := New(context.Background(), testCatalog())
		defer m.Close()
		press(m, tab, tab)
		So(m.Focus(), ShouldEqual, PaneGrid)

		Convey("Then enter opens the book under the cursor", func() {
			press(m, down, enter)
			book, ok := m.Detail()
			So(ok, ShouldBeTrue)
			So(book.ID, ShouldEqual, "2")
		})

		Convey("Then q quits and releases the controller", func() {
			_, cmd := m.Update(runes("q"))
			So(cmd, ShouldNotBeNil)
			So(m.quitting, ShouldBeTrue)
			So(m.View(), ShouldEqual, "")
		})

		Convey("Then slash returns to search", func() {
			press(m, runes("/"))
			So(m.Focus(), ShouldEqual, PaneSearch)
		})
	})
}

func TestModel_WindowSize(t *testing.T) {
	Convey("Given the categories pane is focused", t, func() {
		m := New(context.Background(), testCatalog())
		defer m.Close()
		press(m, tab)

		Convey("When the terminal shrinks", func() {
			m.Update(tea.WindowSizeMsg{Width: 50, Height: 20})
			So(m.Focus(), ShouldEqual, PaneGrid)
		})
	})
}
