package session

import (
	"net/http"

	"github.com/okian/lumina/internal/domain/selection"
	"github.com/okian/lumina/pkg/logger"
)

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithMaxSessions bounds the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxSessions = n
		}
	}
}

// WithNavigator adds a navigator that sees every session's intents, in
// addition to the per-session outbox.
func WithNavigator(n selection.Navigator) Option {
	return func(r *Registry) {
		if n != nil {
			r.nav = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// ManagerOption applies a configuration option to the Manager.
type ManagerOption func(*Manager)

// WithCookieName sets the name of the session cookie.
func WithCookieName(name string) ManagerOption {
	return func(m *Manager) {
		if name != "" {
			m.name = name
		}
	}
}

// WithSecureCookie marks the cookie Secure, for deployments behind TLS.
func WithSecureCookie(secure bool) ManagerOption {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithSameSite sets the cookie SameSite mode.
func WithSameSite(mode http.SameSite) ManagerOption {
	return func(m *Manager) {
		m.sameSite = mode
	}
}
