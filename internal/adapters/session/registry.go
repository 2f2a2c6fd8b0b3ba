// Package session keeps one selection controller per browser session for the
// HTTP adapters.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"github.com/google/uuid"

	"github.com/okian/lumina/internal/adapters/navigation"
	"github.com/okian/lumina/internal/domain/catalog"
	"github.com/okian/lumina/internal/domain/selection"
	"github.com/okian/lumina/pkg/logger"
	"github.com/okian/lumina/pkg/metrics"
)

// DefaultMaxSessions bounds the registry when no option overrides it.
const DefaultMaxSessions = 10_000

// Session is one visitor's browsing state. All access to the controller goes
// through Do, which runs one transition at a time.
type Session struct {
	ID      string
	Created time.Time

	mu     sync.Mutex
	ctrl   *selection.Controller
	outbox *navigation.Outbox
	clicks *clickListener
}

// Do runs fn with exclusive access to the session's controller.
func (s *Session) Do(fn func(c *selection.Controller)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.ctrl)
}

// OutsideClick delivers an interaction outside the search box. It reports
// whether a listener was attached to receive it.
func (s *Session) OutsideClick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clicks.fire()
}

// Navigation pops the latest navigation intent. Call it inside Do, right
// after the transition that may have produced one.
func (s *Session) Navigation() (string, bool) { return s.outbox.Last() }

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Close()
}

// clickListener is the server-side outside-click detector. The browser
// reports outside interactions as requests; the listener only forwards them
// while the suggestion panel holds it.
type clickListener struct {
	onOutside func()
}

func (l *clickListener) Watch(onOutside func()) func() {
	l.onOutside = onOutside
	metrics.RecordListenerAttached()
	return func() {
		l.onOutside = nil
		metrics.RecordListenerReleased()
	}
}

func (l *clickListener) fire() bool {
	if l.onOutside == nil {
		return false
	}
	l.onOutside()
	return true
}

// Registry is a bounded set of sessions. The least recently used session is
// evicted once the bound is reached and its controller is closed.
type Registry struct {
	mu    sync.Mutex
	cache *lru.Cache

	cat         *catalog.Catalog
	nav         selection.Navigator
	log         logger.Logger
	maxSessions int
}

// NewRegistry creates a Registry browsing cat.
func NewRegistry(cat *catalog.Catalog, opts ...Option) *Registry {
	r := &Registry{
		cat:         cat,
		maxSessions: DefaultMaxSessions,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.NewNop()
	}

	r.cache = lru.New(r.maxSessions)
	r.cache.OnEvicted = func(key lru.Key, value interface{}) {
		s, ok := value.(*Session)
		if !ok {
			return
		}
		s.close()
		metrics.RecordSessionEvicted()
		r.log.Debug(context.Background(), "session evicted", logger.String("session", s.ID))
	}
	return r
}

// Get returns the live session with id and marks it recently used.
func (r *Registry) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Create starts a fresh session in the initial state.
func (r *Registry) Create() *Session {
	s := &Session{
		ID:      uuid.NewString(),
		Created: time.Now(),
		outbox:  navigation.NewOutbox(),
		clicks:  &clickListener{},
	}

	nav := selection.Navigator(s.outbox)
	if r.nav != nil {
		nav = navigation.Tee(r.nav, s.outbox)
	}
	s.ctrl = selection.New(r.cat,
		selection.WithNavigator(nav),
		selection.WithOutsideClickWatcher(s.clicks),
		selection.WithObserver(func(t selection.Transition) {
			metrics.RecordTransition(string(t))
		}),
	)

	r.mu.Lock()
	r.cache.Add(s.ID, s)
	n := r.cache.Len()
	r.mu.Unlock()

	metrics.RecordSessionCreated()
	metrics.UpdateSessionsActive(n)
	return s
}

// GetOrCreate returns the session with id, creating a new one when id is
// unknown or was evicted. The bool reports whether a session was created.
func (r *Registry) GetOrCreate(id string) (*Session, bool) {
	if s, ok := r.Get(id); ok {
		return s, false
	}
	return r.Create(), true
}

// Remove ends the session with id, if present.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	r.cache.Remove(id)
	n := r.cache.Len()
	r.mu.Unlock()
	metrics.UpdateSessionsActive(n)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Len()
}

// Close ends every session.
func (r *Registry) Close() {
	r.mu.Lock()
	r.cache.Clear()
	r.mu.Unlock()
	metrics.UpdateSessionsActive(0)
}
