package session

import (
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

// DefaultCookieName is the session cookie name used when none is configured.
const DefaultCookieName = "lumina_session"

const (
	idKey        = "sid"
	cookieMaxAge = 7 * 24 * 60 * 60
)

// Manager binds HTTP requests to registry sessions through a signed cookie.
type Manager struct {
	reg      *Registry
	store    *sessions.CookieStore
	name     string
	secure   bool
	sameSite http.SameSite
}

// NewManager creates a Manager signing cookies with secret. An empty secret
// gets a random key, so cookies do not survive a restart.
func NewManager(reg *Registry, secret []byte, opts ...ManagerOption) *Manager {
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}
	m := &Manager{
		reg:      reg,
		name:     DefaultCookieName,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.store = sessions.NewCookieStore(secret)
	m.store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite,
	}
	return m
}

// Registry returns the underlying session registry.
func (m *Manager) Registry() *Registry { return m.reg }

// Resolve returns the caller's session. A request without a valid cookie, or
// whose session was evicted, starts over with a fresh session and a new
// cookie.
func (m *Manager) Resolve(w http.ResponseWriter, r *http.Request) (*Session, error) {
	// A cookie that fails to decode still yields a usable empty session.
	cs, _ := m.store.Get(r, m.name)
	if cs == nil {
		return nil, fmt.Errorf("%w: no cookie session", ErrSessionStore)
	}

	id, _ := cs.Values[idKey].(string)
	s, created := m.reg.GetOrCreate(id)
	if !created {
		return s, nil
	}

	cs.Values[idKey] = s.ID
	if err := cs.Save(r, w); err != nil {
		return nil, fmt.Errorf("%w: save cookie: %w", ErrSessionStore, err)
	}
	return s, nil
}
