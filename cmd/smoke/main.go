package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/lumina/internal/smoke"
	"github.com/okian/lumina/pkg/logger"
)

// Default configuration constants.
const (
	defaultQueries     = 2000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultRate        = 150
	defaultTimeout     = 10 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the storefront")
		queries = flag.Int("queries", defaultQueries, "Number of search queries to generate")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		rps     = flag.Float64("rate", defaultRate, "Requests per second, 0 for unlimited")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		catalog = flag.String("catalog", "", "Catalog file the server was started with (default: embedded)")
		seed    = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Query generator seed")
		verbose = flag.Bool("verbose", false, "Log every failed check")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	cfg := &smoke.Config{
		BaseURL:     *baseURL,
		Queries:     *queries,
		Workers:     *workers,
		Rate:        *rps,
		Timeout:     *timeout,
		CatalogPath: *catalog,
		Seed:        *seed,
		Verbose:     *verbose,
		Progress:    os.Stderr,
		Logger:      logger.Named("smoke"),
	}

	if _, err := smoke.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "smoke run failed", logger.Error(err))
		_ = logger.Sync()
		cancel()
		os.Exit(1) //nolint:gocritic // deferred funcs already run above
	}
}
