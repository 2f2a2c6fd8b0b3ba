package selection_test

import (
	"context"
	"testing"

	"github.com/okian/lumina/internal/domain/catalog"
	"github.com/okian/lumina/internal/domain/selection"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeWatcher records listener attach/detach and can simulate an outside click.
type fakeWatcher struct {
	active   int
	maxSeen  int
	attaches int
	fire     func()
}

func (w *fakeWatcher) Watch(onOutside func()) func() {
	w.active++
	w.attaches++
	if w.active > w.maxSeen {
		w.maxSeen = w.active
	}
	w.fire = onOutside
	released := false
	return func() {
		if released {
			return
		}
		released = true
		w.active--
		w.fire = nil
	}
}

type recordingNavigator struct{ ids []string }

func (n *recordingNavigator) Navigate(_ context.Context, id string) { n.ids = append(n.ids, id) }

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Books: []catalog.Book{
			{ID: "dune", Title: "Dune", Author: "Herbert", Category: "Sci-Fi"},
			{ID: "hobbit", Title: "Hobbit", Author: "Tolkien", Category: "Fantasy"},
		},
		Categories: []catalog.Category{
			{ID: "fiction", Name: "Fiction", Subcategories: []catalog.Category{
				{ID: "scifi", Name: "Sci-Fi"},
				{ID: "fantasy", Name: "Fantasy"},
			}},
		},
		FeaturedAuthor: catalog.Author{ID: "a", Name: "A"},
	}
}

func TestController_Initial(t *testing.T) {
	Convey("Given a new controller", t, func() {
		c := selection.New(testCatalog())
		s := c.State()

		Convey("Then it starts in the initial state", func() {
			So(s.Category, ShouldEqual, "")
			So(s.Query, ShouldEqual, "")
			So(s.Expanded, ShouldBeEmpty)
			So(s.MenuOpen, ShouldBeFalse)
			So(s.SuggestionsOpen, ShouldBeFalse)
			So(c.Title(), ShouldEqual, "New Arrivals & Best Sellers")
			So(c.VisibleBooks(), ShouldHaveLength, 2)
		})

		Convey("And returned state is a copy", func() {
			s.Expanded["fiction"] = true
			So(c.State().IsExpanded("fiction"), ShouldBeFalse)
		})
	})
}

func TestController_Category(t *testing.T) {
	Convey("Given a controller with the mobile menu open", t, func() {
		c := selection.New(testCatalog())
		c.ToggleMobileMenu()
		So(c.State().MenuOpen, ShouldBeTrue)

		Convey("When a category is selected", func() {
			c.SelectCategory("Fantasy")

			Convey("Then the grid is filtered and the menu closes", func() {
				So(c.State().Category, ShouldEqual, "Fantasy")
				So(c.State().MenuOpen, ShouldBeFalse)
				So(c.Title(), ShouldEqual, "Fantasy Books")
				So(c.VisibleBooks(), ShouldHaveLength, 1)
				So(c.VisibleBooks()[0].Title, ShouldEqual, "Hobbit")
			})
		})

		Convey("When none is selected the menu still closes", func() {
			c.SelectCategory("")
			So(c.State().MenuOpen, ShouldBeFalse)
			So(c.VisibleBooks(), ShouldHaveLength, 2)
		})

		Convey("When the close button is used", func() {
			c.CloseMobileMenu()
			So(c.State().MenuOpen, ShouldBeFalse)
			c.CloseMobileMenu()
			So(c.State().MenuOpen, ShouldBeFalse)
		})
	})
}

func TestController_ToggleExpand(t *testing.T) {
	Convey("Given a controller", t, func() {
		c := selection.New(testCatalog())
		c.SelectCategory("Sci-Fi")
		before := c.State()

		Convey("Toggling twice is an involution", func() {
			c.ToggleExpand("fiction")
			So(c.State().IsExpanded("fiction"), ShouldBeTrue)
			c.ToggleExpand("fiction")
			So(c.State(), ShouldResemble, before)
		})

		Convey("Toggling does not touch the selected category", func() {
			c.ToggleExpand("fiction")
			So(c.State().Category, ShouldEqual, "Sci-Fi")
		})
	})
}

func TestController_Search(t *testing.T) {
	Convey("Given a controller with a watcher and navigator", t, func() {
		w := &fakeWatcher{}
		nav := &recordingNavigator{}
		c := selection.New(testCatalog(), selection.WithOutsideClickWatcher(w), selection.WithNavigator(nav))

		Convey("When a blank query is typed", func() {
			c.SetQuery("   ")

			Convey("Then the panel stays closed and no listener is attached", func() {
				So(c.State().SuggestionsOpen, ShouldBeFalse)
				So(c.Suggestions().Active, ShouldBeFalse)
				So(w.active, ShouldEqual, 0)
			})
		})

		Convey("When a matching query is typed", func() {
			c.SetQuery("du")

			Convey("Then the panel opens with matches and one listener", func() {
				So(c.State().SuggestionsOpen, ShouldBeTrue)
				So(c.Suggestions().Books, ShouldHaveLength, 1)
				So(w.active, ShouldEqual, 1)
			})

			Convey("And further typing keeps a single listener", func() {
				c.SetQuery("dun")
				c.SetQuery("z")
				So(c.Suggestions().Empty(), ShouldBeTrue)
				So(c.State().SuggestionsOpen, ShouldBeTrue)
				So(w.maxSeen, ShouldEqual, 1)
				So(w.attaches, ShouldEqual, 1)
			})

			Convey("And clearing closes the panel and releases the listener", func() {
				c.ClearQuery()
				So(c.State().Query, ShouldEqual, "")
				So(c.State().SuggestionsOpen, ShouldBeFalse)
				So(w.active, ShouldEqual, 0)
			})

			Convey("And an outside click closes the panel but keeps the query", func() {
				w.fire()
				So(c.State().SuggestionsOpen, ShouldBeFalse)
				So(c.State().Query, ShouldEqual, "du")
				So(w.active, ShouldEqual, 0)
				So(c.ListenerAttached(), ShouldBeFalse)

				Convey("And focusing the box reopens it", func() {
					c.FocusSearch()
					So(c.State().SuggestionsOpen, ShouldBeTrue)
					So(w.active, ShouldEqual, 1)
				})
			})

			Convey("And selecting a result clears the search and navigates", func() {
				c.SelectCategory("Fantasy")
				c.SelectSearchResult(context.Background(), "dune")

				So(c.State().Query, ShouldEqual, "")
				So(c.State().SuggestionsOpen, ShouldBeFalse)
				So(c.State().Category, ShouldEqual, "Fantasy")
				So(nav.ids, ShouldResemble, []string{"dune"})
				So(w.active, ShouldEqual, 0)

				Convey("And selecting again with the panel closed leaves it closed", func() {
					c.SelectSearchResult(context.Background(), "hobbit")
					So(c.State().SuggestionsOpen, ShouldBeFalse)
					So(nav.ids, ShouldResemble, []string{"dune", "hobbit"})
				})
			})

			Convey("And closing the controller releases the listener", func() {
				c.Close()
				So(w.active, ShouldEqual, 0)
				c.Close()
				So(w.active, ShouldEqual, 0)

				Convey("And a closed controller never reattaches", func() {
					c.SetQuery("hob")
					So(w.active, ShouldEqual, 0)
				})
			})
		})

		Convey("When focusing with a blank query", func() {
			c.FocusSearch()
			So(c.State().SuggestionsOpen, ShouldBeFalse)
			So(w.active, ShouldEqual, 0)
		})
	})
}

func TestController_Observer(t *testing.T) {
	Convey("Given an observed controller", t, func() {
		var seen []selection.Transition
		c := selection.New(testCatalog(), selection.WithObserver(func(tr selection.Transition) {
			seen = append(seen, tr)
		}))

		c.SetQuery("x")
		c.ToggleMobileMenu()
		c.SelectCategory("Fiction")

		So(seen, ShouldResemble, []selection.Transition{
			selection.TransitionSetQuery,
			selection.TransitionToggleMenu,
			selection.TransitionSelectCategory,
		})
	})
}
