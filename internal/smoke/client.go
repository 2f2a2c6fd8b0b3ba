package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/lumina/internal/domain/search"
	"github.com/okian/lumina/internal/domain/types"
)

// Client talks to a running storefront.
type Client struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client with its own cookie jar. rps <= 0 disables
// client-side pacing.
func NewClient(base string, timeout time.Duration, rps float64) *Client {
	jar, _ := cookiejar.New(nil) // only fails on a non-nil bad options value
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		burst = max(1, int(rps))
	}
	return &Client{
		base:    base,
		http:    &http.Client{Timeout: timeout, Jar: jar},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Session returns a client sharing pacing and base URL but holding a fresh
// cookie jar, so it browses as a new visitor.
func (c *Client) Session() *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		base:    c.base,
		http:    &http.Client{Timeout: c.http.Timeout, Jar: jar},
		limiter: c.limiter,
	}
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	return nil
}

// Search calls GET /api/catalog/search.
func (c *Client) Search(ctx context.Context, q string) (search.Result, error) {
	var res search.Result
	err := c.do(ctx, http.MethodGet, "/api/catalog/search?"+url.Values{"q": {q}}.Encode(), nil, &res)
	return res, err
}

// Books calls GET /api/catalog/books.
func (c *Client) Books(ctx context.Context, category string) (types.BookList, error) {
	path := "/api/catalog/books"
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}
	var list types.BookList
	err := c.do(ctx, http.MethodGet, path, nil, &list)
	return list, err
}

// SetQuery calls PUT /api/session/query.
func (c *Client) SetQuery(ctx context.Context, q string) (types.View, error) {
	var v types.View
	err := c.do(ctx, http.MethodPut, "/api/session/query", map[string]string{"query": q}, &v)
	return v, err
}

// Dismiss calls POST /api/session/search/dismiss.
func (c *Client) Dismiss(ctx context.Context) (types.View, error) {
	var v types.View
	err := c.do(ctx, http.MethodPost, "/api/session/search/dismiss", nil, &v)
	return v, err
}

// FocusSearch calls POST /api/session/search/focus.
func (c *Client) FocusSearch(ctx context.Context) (types.View, error) {
	var v types.View
	err := c.do(ctx, http.MethodPost, "/api/session/search/focus", nil, &v)
	return v, err
}

// Select calls POST /api/session/search/select.
func (c *Client) Select(ctx context.Context, bookID string) (types.Navigate, error) {
	var nav types.Navigate
	err := c.do(ctx, http.MethodPost, "/api/session/search/select", map[string]string{"book_id": bookID}, &nav)
	return nav, err
}

// View calls GET /api/session.
func (c *Client) View(ctx context.Context) (types.View, error) {
	var v types.View
	err := c.do(ctx, http.MethodGet, "/api/session", nil, &v)
	return v, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshal: %w", ErrRequest, err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrRequest, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrRequest, method, path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrRequest, path, err)
	}
	return nil
}
