package tui

import "github.com/okian/lumina/pkg/logger"

// Option configures the browser model.
type Option func(*Model)

// WithCartCount sets the static cart badge.
func WithCartCount(n int) Option {
	return func(m *Model) {
		if n >= 0 {
			m.cartCount = n
		}
	}
}

// WithLogger sets the logger. Terminal output belongs to the UI, so the
// default is a no-op logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// WithSize seeds the terminal size before the first WindowSizeMsg.
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width, m.height = width, height
	}
}
