package tui

// focusWatcher stands in for a document click listener: leaving the search
// pane counts as an interaction outside the search box.
type focusWatcher struct {
	onOutside func()
}

func (w *focusWatcher) Watch(onOutside func()) func() {
	w.onOutside = onOutside
	return func() { w.onOutside = nil }
}

func (w *focusWatcher) attached() bool { return w.onOutside != nil }

func (w *focusWatcher) fire() {
	if fn := w.onOutside; fn != nil {
		fn()
	}
}
