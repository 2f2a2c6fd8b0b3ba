// Package tui is a terminal storefront browser built on bubbletea. It drives
// the same selection controller the web storefront uses.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"

	"github.com/okian/lumina/internal/adapters/navigation"
	"github.com/okian/lumina/internal/domain/catalog"
	"github.com/okian/lumina/internal/domain/filter"
	"github.com/okian/lumina/internal/domain/selection"
	"github.com/okian/lumina/pkg/logger"
)

// Pane identifies the focused area of the screen.
type Pane int

// Panes in tab order.
const (
	PaneSearch Pane = iota
	PaneCategories
	PaneGrid
)

func (p Pane) String() string {
	switch p {
	case PaneSearch:
		return "search"
	case PaneCategories:
		return "categories"
	case PaneGrid:
		return "grid"
	default:
		return "unknown"
	}
}

// DefaultCartCount is the cart badge shown when no count is configured.
const DefaultCartCount = 2

// NarrowWidth is the terminal width below which the category sidebar is
// only shown while the menu is open.
const NarrowWidth = 100

// row is one line of the category tree. all marks the "All Books" entry.
type row struct {
	cat   catalog.Category
	depth int
	all   bool
}

// Model is the bubbletea model of the terminal storefront.
type Model struct {
	ctx     context.Context
	ctrl    *selection.Controller
	outbox  *navigation.Outbox
	watcher *focusWatcher
	input   textinput.Model
	log     logger.Logger

	focus      Pane
	sugCursor  int
	catCursor  int
	gridCursor int
	detail     *catalog.Book

	cartCount     int
	width, height int
	quitting      bool
}

// New creates a browser over cat with the search box focused.
func New(ctx context.Context, cat *catalog.Catalog, opts ...Option) *Model {
	ti := textinput.New()
	ti.Placeholder = "Search by title or author"
	ti.Prompt = "🔍 "
	ti.PromptStyle = gloss.NewStyle().Foreground(accent).Bold(true)
	ti.TextStyle = gloss.NewStyle().Foreground(text)
	ti.PlaceholderStyle = MutedStyle
	ti.Focus()

	m := &Model{
		ctx:       ctx,
		outbox:    navigation.NewOutbox(),
		watcher:   &focusWatcher{},
		input:     ti,
		log:       logger.NewNop(),
		cartCount: DefaultCartCount,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.ctrl = selection.New(cat,
		selection.WithNavigator(navigation.Logging(m.outbox, m.log)),
		selection.WithOutsideClickWatcher(m.watcher),
		selection.WithObserver(func(t selection.Transition) {
			m.log.Debug(ctx, "transition", logger.String("kind", string(t)))
		}),
	)
	return m
}

// Controller exposes the underlying selection controller.
func (m *Model) Controller() *selection.Controller { return m.ctrl }

// Focus returns the focused pane.
func (m *Model) Focus() Pane { return m.focus }

// Detail returns the book whose detail page is open, if any.
func (m *Model) Detail() (catalog.Book, bool) {
	if m.detail == nil {
		return catalog.Book{}, false
	}
	return *m.detail, true
}

// Close releases the controller.
func (m *Model) Close() { m.ctrl.Close() }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return textinput.Blink }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(10, min(60, msg.Width-8))
		if !m.sidebarVisible() && m.focus == PaneCategories {
			m.setFocus(PaneGrid)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m.quit()
	}
	if m.detail != nil {
		switch key {
		case "esc", "backspace", "enter":
			m.detail = nil
		case "q":
			return m.quit()
		}
		return m, nil
	}
	switch key {
	case "tab":
		return m, m.setFocus(m.nextPane(1))
	case "shift+tab":
		return m, m.setFocus(m.nextPane(-1))
	}

	switch m.focus {
	case PaneSearch:
		return m.handleSearchKey(msg)
	case PaneCategories:
		m.handleCategoryKey(key)
	case PaneGrid:
		m.handleGridKey(key)
	}
	switch key {
	case "q":
		return m.quit()
	case "m":
		m.ctrl.ToggleMobileMenu()
		if !m.sidebarVisible() && m.focus == PaneCategories {
			m.setFocus(PaneGrid)
		}
	case "/":
		return m, m.setFocus(PaneSearch)
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sugs := m.ctrl.Suggestions().Books
	switch msg.String() {
	case "up":
		if m.sugCursor > 0 {
			m.sugCursor--
		}
		return m, nil
	case "down":
		if m.sugCursor < len(sugs)-1 {
			m.sugCursor++
		}
		return m, nil
	case "enter":
		if len(sugs) == 0 {
			m.ctrl.FocusSearch()
			return m, nil
		}
		m.pick(sugs[min(m.sugCursor, len(sugs)-1)].ID)
		return m, nil
	case "esc":
		m.ctrl.ClearQuery()
		m.input.SetValue("")
		m.sugCursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.ctrl.State().Query {
		m.ctrl.SetQuery(v)
		m.sugCursor = 0
	}
	return m, cmd
}

// pick selects a suggestion and follows the navigation it produces.
func (m *Model) pick(id string) {
	m.ctrl.SelectSearchResult(m.ctx, id)
	m.input.SetValue("")
	m.sugCursor = 0
	target, ok := m.outbox.Last()
	if !ok {
		return
	}
	book, err := m.ctrl.Catalog().BookByID(target)
	if err != nil {
		m.log.Warn(m.ctx, "navigation target missing", logger.String("book_id", target), logger.Error(err))
		return
	}
	m.detail = &book
}

func (m *Model) handleCategoryKey(key string) {
	rows := m.rows()
	switch key {
	case "up", "k":
		if m.catCursor > 0 {
			m.catCursor--
		}
	case "down", "j":
		if m.catCursor < len(rows)-1 {
			m.catCursor++
		}
	case "enter":
		r := rows[m.catCursor]
		name := filter.None
		if !r.all {
			name = r.cat.Name
		}
		m.ctrl.SelectCategory(name)
		m.gridCursor = 0
		if !m.sidebarVisible() {
			m.setFocus(PaneGrid)
		}
	case " ", "right", "left":
		r := rows[m.catCursor]
		if r.all || r.depth > 0 || !r.cat.HasSubcategories() {
			return
		}
		expanded := m.ctrl.State().IsExpanded(r.cat.ID)
		if (key == "right" && expanded) || (key == "left" && !expanded) {
			return
		}
		m.ctrl.ToggleExpand(r.cat.ID)
	}
	m.catCursor = min(m.catCursor, len(m.rows())-1)
}

func (m *Model) handleGridKey(key string) {
	books := m.ctrl.VisibleBooks()
	switch key {
	case "up", "k":
		if m.gridCursor > 0 {
			m.gridCursor--
		}
	case "down", "j":
		if m.gridCursor < len(books)-1 {
			m.gridCursor++
		}
	case "enter":
		if len(books) > 0 {
			b := books[min(m.gridCursor, len(books)-1)]
			m.detail = &b
		}
	}
}

// setFocus moves focus to p. Leaving the search pane is the outside
// interaction that dismisses the suggestion panel.
func (m *Model) setFocus(p Pane) tea.Cmd {
	if p == m.focus {
		return nil
	}
	if m.focus == PaneSearch {
		m.watcher.fire()
		m.input.Blur()
	}
	m.focus = p
	if p == PaneSearch {
		m.ctrl.FocusSearch()
		return m.input.Focus()
	}
	return nil
}

func (m *Model) nextPane(step int) Pane {
	panes := []Pane{PaneSearch, PaneGrid}
	if m.sidebarVisible() {
		panes = []Pane{PaneSearch, PaneCategories, PaneGrid}
	}
	cur := 0
	for i, p := range panes {
		if p == m.focus {
			cur = i
		}
	}
	return panes[(cur+step+len(panes))%len(panes)]
}

func (m *Model) sidebarVisible() bool {
	return m.width == 0 || m.width >= NarrowWidth || m.ctrl.State().MenuOpen
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.ctrl.Close()
	return m, tea.Quit
}

func (m *Model) rows() []row {
	st := m.ctrl.State()
	out := []row{{all: true}}
	for _, c := range m.ctrl.Catalog().Categories {
		out = append(out, row{cat: c})
		if st.IsExpanded(c.ID) {
			for _, sub := range c.Subcategories {
				out = append(out, row{cat: sub, depth: 1})
			}
		}
	}
	return out
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	header := gloss.JoinHorizontal(gloss.Center,
		HeaderStyle.Render("📚 Lumina Books"),
		BadgeStyle.Render(fmt.Sprintf("🛒 %d", m.cartCount)),
	)
	if m.detail != nil {
		return gloss.JoinVertical(gloss.Left, header, m.viewDetail(), HelpStyle.Render("esc back • q quit"))
	}

	body := m.viewGrid()
	if m.sidebarVisible() {
		body = gloss.JoinHorizontal(gloss.Top, m.viewSidebar(), body)
	}
	help := "tab focus • enter select • space expand • m menu • / search • q quit"
	return gloss.JoinVertical(gloss.Left, header, m.viewSearch(), body, HelpStyle.Render(help))
}

func (m *Model) pane(p Pane) gloss.Style {
	if m.focus == p {
		return FocusedPaneStyle
	}
	return PaneStyle
}

func (m *Model) viewSearch() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	st := m.ctrl.State()
	res := m.ctrl.Suggestions()
	switch {
	case res.Empty():
		b.WriteString("\n" + EmptyStyle.Render(fmt.Sprintf("No books found for %q", st.Query)))
	case res.Active:
		for i, book := range res.Books {
			line := fmt.Sprintf("%s by %s", book.Title, book.Author)
			if i == m.sugCursor && m.focus == PaneSearch {
				line = CursorStyle.Render("› " + line)
			} else {
				line = "  " + line
			}
			b.WriteString("\n" + line)
		}
	case strings.TrimSpace(st.Query) != "":
		b.WriteString("\n" + MutedStyle.Render("enter to show suggestions"))
	}
	return m.pane(PaneSearch).Render(b.String())
}

func (m *Model) viewSidebar() string {
	st := m.ctrl.State()
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Categories"))
	for i, r := range m.rows() {
		label := "All Books"
		selected := st.Category == filter.None
		if !r.all {
			label = strings.Repeat("  ", r.depth) + r.cat.Name
			selected = st.Category == r.cat.Name
			if r.cat.HasSubcategories() {
				marker := "▸ "
				if st.IsExpanded(r.cat.ID) {
					marker = "▾ "
				}
				label = marker + label
			}
		}
		if selected {
			label = SelectedStyle.Render(label)
		}
		if i == m.catCursor && m.focus == PaneCategories {
			label = CursorStyle.Render("› ") + label
		} else {
			label = "  " + label
		}
		b.WriteString("\n" + label)
	}

	a := m.ctrl.Catalog().FeaturedAuthor
	b.WriteString("\n\n" + TitleStyle.Render("Author of the Month"))
	b.WriteString("\n" + a.Name)
	if a.Bio != "" {
		b.WriteString("\n" + MutedStyle.Width(28).Render(a.Bio))
	}
	for _, w := range a.NotableWorks {
		b.WriteString("\n• " + w)
	}
	return m.pane(PaneCategories).Width(34).Render(b.String())
}

func (m *Model) viewGrid() string {
	books := m.ctrl.VisibleBooks()
	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.ctrl.Title()))
	b.WriteString(MutedStyle.Render(fmt.Sprintf("  %d items", len(books))))
	if len(books) == 0 {
		b.WriteString("\n" + EmptyStyle.Render("No books found matching this criteria."))
	}
	for i, book := range books {
		line := fmt.Sprintf("%s by %s  %s %.1f  $%.2f",
			book.Title, book.Author, StarStyle.Render(catalog.Stars(book.Rating)), book.Rating, book.Price)
		if book.BestSeller {
			line += " " + BestSeller.Render("Best Seller")
		}
		if i == m.gridCursor && m.focus == PaneGrid {
			line = CursorStyle.Render("› ") + line
		} else {
			line = "  " + line
		}
		b.WriteString("\n" + line)
	}
	return m.pane(PaneGrid).Render(b.String())
}

func (m *Model) viewDetail() string {
	book := m.detail
	var b strings.Builder
	b.WriteString(TitleStyle.Render(book.Title))
	b.WriteString("\nby " + book.Author)
	b.WriteString(fmt.Sprintf("\n%s %.1f (%d reviews)", StarStyle.Render(catalog.Stars(book.Rating)), book.Rating, book.ReviewCount))
	b.WriteString(fmt.Sprintf("\n$%.2f • %s", book.Price, book.Category))
	if book.BestSeller {
		b.WriteString("\n" + BestSeller.Render("Best Seller"))
	}
	if book.Description != "" {
		width := 70
		if m.width > 0 {
			width = max(20, min(width, m.width-6))
		}
		b.WriteString("\n\n" + gloss.NewStyle().Width(width).Render(book.Description))
	}
	return FocusedPaneStyle.Render(b.String())
}
