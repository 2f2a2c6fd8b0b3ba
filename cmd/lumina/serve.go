package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/okian/lumina/internal/adapters/fixture"
	"github.com/okian/lumina/internal/adapters/http/api"
	"github.com/okian/lumina/internal/adapters/http/site"
	"github.com/okian/lumina/internal/adapters/http/swagger"
	"github.com/okian/lumina/internal/adapters/session"
	service "github.com/okian/lumina/internal/app"
	"github.com/okian/lumina/internal/config"
	"github.com/okian/lumina/pkg/logger"
	"github.com/okian/lumina/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront, its JSON API and metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address; overrides LUMINA_ADDR")
	return cmd
}

func runServe(cmd *cobra.Command, flags *rootFlags, addr string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, cmd, flags)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}
	applyLogLevel(ctx, log, cfg.LogLevel)

	svc, err := startService(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Stop()

	handler, err := newHandler(svc, cfg, log, os.Stdout)
	if err != nil {
		return err
	}

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// startService loads the catalog and starts the storefront service.
func startService(ctx context.Context, cfg *config.Config, log logger.Logger) (*service.Service, error) {
	store, err := fixture.Load(ctx, cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	svc := service.New(store,
		service.WithLogger(log),
		service.WithMaxSessions(cfg.MaxSessions),
		service.WithCartCount(cfg.CartCount),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("start service: %w", err)
	}
	return svc, nil
}

// newHandler wires the API, the docs and the storefront pages behind the
// access log, gzip and panic recovery.
func newHandler(svc *service.Service, cfg *config.Config, log logger.Logger, accessLog io.Writer) (http.Handler, error) {
	sessions := session.NewManager(svc.Sessions(), []byte(cfg.SessionSecret),
		session.WithCookieName(cfg.SessionCookie))

	r := mux.NewRouter()
	api.NewServer(svc, sessions, svc,
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithLogger(log.Named("api")),
	).Register(r)
	swagger.Register(r)

	pages, err := site.New(svc, sessions, log.Named("site"))
	if err != nil {
		return nil, err
	}
	pages.Register(r)

	var h http.Handler = r
	h = handlers.CompressHandler(h)
	h = handlers.CombinedLoggingHandler(accessLog, h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{log: log}),
		handlers.PrintRecoveryStack(false),
	)(h)
	return h, nil
}

// recoveryLogger routes recovered panics into the structured log.
type recoveryLogger struct {
	log logger.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error(context.Background(), "recovered from panic", logger.String("panic", fmt.Sprint(v...)))
	metrics.RecordErrorByType("panic", "critical")
}

// startSystemMetricsUpdater refreshes runtime gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
