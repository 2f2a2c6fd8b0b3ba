// Package navigation provides the navigation capabilities injected into the
// selection controller.
package navigation

import (
	"context"
	"net/url"
	"sync"

	"github.com/okian/lumina/internal/domain/selection"
	"github.com/okian/lumina/pkg/logger"
	"github.com/okian/lumina/pkg/metrics"
)

var (
	_ selection.Navigator = (*Outbox)(nil)
	_ selection.Navigator = Func(nil)
)

// Func adapts a plain function to selection.Navigator.
type Func func(ctx context.Context, bookID string)

// Navigate calls f.
func (f Func) Navigate(ctx context.Context, bookID string) { f(ctx, bookID) }

// Outbox collects navigation intents until the adapter drains them.
type Outbox struct {
	mu      sync.Mutex
	pending []string
}

// NewOutbox creates an empty Outbox.
func NewOutbox() *Outbox { return &Outbox{} }

// Navigate records bookID as a pending intent.
func (o *Outbox) Navigate(_ context.Context, bookID string) {
	o.mu.Lock()
	o.pending = append(o.pending, bookID)
	o.mu.Unlock()
}

// Drain returns the pending intents in order and clears them.
func (o *Outbox) Drain() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.pending
	o.pending = nil
	return out
}

// Last drains the outbox and returns the most recent intent, if any.
func (o *Outbox) Last() (string, bool) {
	ids := o.Drain()
	if len(ids) == 0 {
		return "", false
	}
	return ids[len(ids)-1], true
}

// BookPath is the storefront route a navigation intent resolves to.
func BookPath(bookID string) string { return "/books/" + url.PathEscape(bookID) }

// Logging wraps next so every intent is logged and counted.
func Logging(next selection.Navigator, log logger.Logger) selection.Navigator {
	return Func(func(ctx context.Context, bookID string) {
		log.Info(ctx, "navigating to book", logger.String("book_id", bookID))
		metrics.RecordNavigationIntent()
		next.Navigate(ctx, bookID)
	})
}

// Tee fans one intent out to several navigators in order.
func Tee(navs ...selection.Navigator) selection.Navigator {
	return Func(func(ctx context.Context, bookID string) {
		for _, n := range navs {
			if n != nil {
				n.Navigate(ctx, bookID)
			}
		}
	})
}
