// Package selection owns the browsing state of one storefront session and
// the transitions that mutate it.
package selection

import "strings"

// State is a snapshot of a session's browsing state. Values returned by the
// Controller are deep copies; mutating them has no effect on the session.
type State struct {
	Category        string          `json:"category"` // "" means no category
	Query           string          `json:"query"`
	Expanded        map[string]bool `json:"expanded"`
	MenuOpen        bool            `json:"menu_open"`
	SuggestionsOpen bool            `json:"suggestions_open"`
}

// Initial returns the state every session starts in.
func Initial() State {
	return State{Expanded: map[string]bool{}}
}

// IsExpanded reports whether the category id is expanded.
func (s State) IsExpanded(categoryID string) bool { return s.Expanded[categoryID] }

func (s State) clone() State {
	out := s
	out.Expanded = make(map[string]bool, len(s.Expanded))
	for id := range s.Expanded {
		out.Expanded[id] = true
	}
	return out
}

func queryActive(q string) bool { return strings.TrimSpace(q) != "" }

// Transition names the state transitions, for observers.
type Transition string

// Transition kinds.
const (
	TransitionSelectCategory  Transition = "select_category"
	TransitionToggleExpand    Transition = "toggle_expand"
	TransitionSetQuery        Transition = "set_query"
	TransitionFocusSearch     Transition = "focus_search"
	TransitionDismiss         Transition = "dismiss_suggestions"
	TransitionSelectResult    Transition = "select_search_result"
	TransitionToggleMenu      Transition = "toggle_menu"
	TransitionCloseMenu       Transition = "close_menu"
	TransitionControllerClose Transition = "close"
)
