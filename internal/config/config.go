// Package config defines storefront configuration and its loading hooks.
package config

import (
	"context"
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CatalogPath points at a JSON or YAML catalog fixture. Empty uses the
	// embedded default.
	CatalogPath string `koanf:"catalog_path"`

	// SessionSecret signs the session cookie. Empty generates a random key
	// at startup.
	SessionSecret string `koanf:"session_secret"`

	// SessionCookie names the session cookie.
	SessionCookie string `koanf:"session_cookie"`

	// MaxSessions bounds the in-memory session registry.
	MaxSessions int `koanf:"max_sessions"`

	// CartCount is the static cart badge count.
	CartCount int `koanf:"cart_count"`

	// RateLimitRPS and RateLimitBurst configure the API token bucket.
	// A zero rate disables limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`
}

// New creates a Config with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		SessionCookie:  "lumina_session",
		MaxSessions:    10_000,
		CartCount:      2,
		RateLimitRPS:   200,
		RateLimitBurst: 400,
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.SessionCookie == "":
		return fmt.Errorf("%w: session_cookie must not be empty", ErrInvalidConfig)
	case c.MaxSessions <= 0:
		return fmt.Errorf("%w: max_sessions must be positive, got %d", ErrInvalidConfig, c.MaxSessions)
	case c.CartCount < 0:
		return fmt.Errorf("%w: cart_count must not be negative, got %d", ErrInvalidConfig, c.CartCount)
	case c.RateLimitRPS < 0:
		return fmt.Errorf("%w: rate_limit_rps must not be negative", ErrInvalidConfig)
	case c.RateLimitRPS > 0 && c.RateLimitBurst <= 0:
		return fmt.Errorf("%w: rate_limit_burst must be positive when rate limiting is on", ErrInvalidConfig)
	}
	return nil
}
