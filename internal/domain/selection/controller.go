package selection

import (
	"context"

	"github.com/okian/lumina/internal/domain/catalog"
	"github.com/okian/lumina/internal/domain/filter"
	"github.com/okian/lumina/internal/domain/search"
)

// Controller is the single owner of a session's State. Every mutation goes
// through one of its transition methods.
//
// A Controller is not safe for concurrent use; callers deliver one input
// event at a time and let each transition run to completion.
type Controller struct {
	cat   *catalog.Catalog
	state State

	nav       Navigator
	watcher   OutsideClickWatcher
	release   func() // non-nil exactly while the outside-click listener is attached
	observers []func(Transition)
	closed    bool
}

// New creates a Controller over cat in the initial state.
func New(cat *catalog.Catalog, opts ...Option) *Controller {
	c := &Controller{
		cat:     cat,
		state:   Initial(),
		nav:     noopNavigator{},
		watcher: noopWatcher{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State { return c.state.clone() }

// SelectCategory selects name ("" for none). Any selection also closes the
// mobile menu overlay.
func (c *Controller) SelectCategory(name string) {
	c.state.Category = name
	c.state.MenuOpen = false
	c.notify(TransitionSelectCategory)
}

// ToggleExpand flips whether categoryID is expanded in the category tree.
func (c *Controller) ToggleExpand(categoryID string) {
	if c.state.Expanded[categoryID] {
		delete(c.state.Expanded, categoryID)
	} else {
		c.state.Expanded[categoryID] = true
	}
	c.notify(TransitionToggleExpand)
}

// SetQuery updates the search text. A non-blank query opens the suggestion
// panel; a blank one closes it.
func (c *Controller) SetQuery(text string) {
	c.state.Query = text
	c.setSuggestionsOpen(queryActive(text))
	c.notify(TransitionSetQuery)
}

// ClearQuery empties the search box.
func (c *Controller) ClearQuery() { c.SetQuery("") }

// FocusSearch reopens the suggestion panel when the box already holds a
// non-blank query.
func (c *Controller) FocusSearch() {
	if queryActive(c.state.Query) {
		c.setSuggestionsOpen(true)
	}
	c.notify(TransitionFocusSearch)
}

// DismissSuggestions closes the panel after an outside interaction. The
// query is kept so focusing the box again restores the suggestions.
func (c *Controller) DismissSuggestions() {
	c.setSuggestionsOpen(false)
	c.notify(TransitionDismiss)
}

// SelectSearchResult clears the search and hands bookID to the navigator.
// The selected category is left untouched.
func (c *Controller) SelectSearchResult(ctx context.Context, bookID string) {
	c.state.Query = ""
	c.setSuggestionsOpen(false)
	c.nav.Navigate(ctx, bookID)
	c.notify(TransitionSelectResult)
}

// ToggleMobileMenu flips the mobile navigation overlay.
func (c *Controller) ToggleMobileMenu() {
	c.state.MenuOpen = !c.state.MenuOpen
	c.notify(TransitionToggleMenu)
}

// CloseMobileMenu closes the mobile navigation overlay.
func (c *Controller) CloseMobileMenu() {
	c.state.MenuOpen = false
	c.notify(TransitionCloseMenu)
}

// Close tears the controller down and releases the outside-click listener.
// It is safe to call more than once.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.detach()
	c.closed = true
	c.notify(TransitionControllerClose)
}

// Suggestions returns what the suggestion panel shows. A closed panel shows
// nothing, even when the query would match.
func (c *Controller) Suggestions() search.Result {
	if !c.state.SuggestionsOpen {
		return search.Inactive()
	}
	return search.Match(c.state.Query, c.cat.Books)
}

// VisibleBooks returns the product grid for the selected category.
func (c *Controller) VisibleBooks() []catalog.Book {
	return filter.Filter(c.state.Category, c.cat.Books, c.cat.Categories)
}

// Title returns the product grid heading.
func (c *Controller) Title() string { return filter.Title(c.state.Category) }

// Catalog returns the catalog the controller browses.
func (c *Controller) Catalog() *catalog.Catalog { return c.cat }

// ListenerAttached reports whether the outside-click listener is held.
func (c *Controller) ListenerAttached() bool { return c.release != nil }

func (c *Controller) setSuggestionsOpen(open bool) {
	c.state.SuggestionsOpen = open
	if open {
		c.attach()
	} else {
		c.detach()
	}
}

func (c *Controller) attach() {
	if c.release != nil || c.closed {
		return
	}
	c.release = c.watcher.Watch(c.DismissSuggestions)
}

func (c *Controller) detach() {
	if c.release == nil {
		return
	}
	release := c.release
	c.release = nil
	release()
}

func (c *Controller) notify(t Transition) {
	for _, fn := range c.observers {
		fn(t)
	}
}
