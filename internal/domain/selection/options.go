package selection

import "context"

// Navigator receives navigation intent when a suggestion is picked. The
// controller only supplies the book id; routing belongs to the adapter.
type Navigator interface {
	Navigate(ctx context.Context, bookID string)
}

// OutsideClickWatcher attaches a listener that fires when the user interacts
// outside the search box. The returned release func detaches it.
type OutsideClickWatcher interface {
	Watch(onOutside func()) (release func())
}

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithNavigator sets the navigation capability.
func WithNavigator(n Navigator) Option {
	return func(c *Controller) {
		if n != nil {
			c.nav = n
		}
	}
}

// WithOutsideClickWatcher sets the outside-interaction detector.
func WithOutsideClickWatcher(w OutsideClickWatcher) Option {
	return func(c *Controller) {
		if w != nil {
			c.watcher = w
		}
	}
}

// WithObserver registers a callback invoked after every transition.
func WithObserver(fn func(Transition)) Option {
	return func(c *Controller) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}

type noopNavigator struct{}

func (noopNavigator) Navigate(context.Context, string) {}

type noopWatcher struct{}

func (noopWatcher) Watch(func()) func() { return func() {} }
