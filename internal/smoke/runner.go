package smoke

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/okian/lumina/internal/adapters/fixture"
	"github.com/okian/lumina/internal/domain/catalog"
	"github.com/okian/lumina/pkg/logger"
)

// Run executes the complete smoke check and returns ErrVerification when any
// check failed.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	log.Info(ctx, "starting lumina smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("queries", cfg.Queries),
		logger.Int("workers", cfg.Workers),
		logger.Float64("rate", cfg.Rate),
		logger.String("timeout", cfg.Timeout.String()),
		logger.String("catalog", cfg.CatalogPath))

	store, err := fixture.Load(ctx, cfg.CatalogPath)
	if err != nil {
		return stats, fmt.Errorf("load catalog: %w", err)
	}
	cat := store.Catalog(ctx)

	client := NewClient(cfg.BaseURL, cfg.Timeout, cfg.Rate)
	if err := client.Health(ctx); err != nil {
		return stats, err
	}
	log.Info(ctx, "storefront is healthy")

	queries := GenerateQueries(cat, cfg.Queries, cfg.Seed)
	stats.QueriesGenerated = len(queries)

	if err := runSearches(ctx, cfg, client, cat, queries, stats, log); err != nil {
		return stats, err
	}
	if err := runFilters(ctx, client, cat, stats, log); err != nil {
		return stats, err
	}
	if err := VerifySession(ctx, client.Session(), cat); err != nil {
		log.Error(ctx, "session walkthrough failed", logger.Error(err))
	} else {
		stats.SessionChecked = true
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if stats.Failed() {
		return stats, fmt.Errorf("%w: %d queries, %d categories, session ok=%t",
			ErrVerification, stats.QueriesFailed, stats.CategoriesFailed, stats.SessionChecked)
	}
	log.Info(ctx, "smoke run passed")
	return stats, nil
}

// runSearches fans queries out over cfg.Workers goroutines. Mismatches are
// counted; transport errors abort the run.
func runSearches(ctx context.Context, cfg *Config, client *Client, cat *catalog.Catalog,
	queries []string, stats *Stats, log logger.Logger) error {
	bar := newBar(cfg, len(queries))
	var checked, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.Workers))
	for _, q := range queries {
		g.Go(func() error {
			res, err := client.Search(gctx, q)
			if err != nil {
				return err
			}
			checked.Add(1)
			if err := VerifySearch(cat, q, res); err != nil {
				failed.Add(1)
				if cfg.Verbose {
					log.Warn(gctx, "search check failed", logger.Error(err))
				}
			}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()
	if bar != nil {
		_ = bar.Finish()
	}

	stats.QueriesChecked = int(checked.Load())
	stats.QueriesFailed = int(failed.Load())
	if err != nil {
		return fmt.Errorf("search phase: %w", err)
	}
	return nil
}

func runFilters(ctx context.Context, client *Client, cat *catalog.Catalog, stats *Stats, log logger.Logger) error {
	for _, name := range Categories(cat) {
		list, err := client.Books(ctx, name)
		if err != nil {
			return fmt.Errorf("filter phase: %w", err)
		}
		stats.CategoriesChecked++
		if err := VerifyFilter(cat, name, list); err != nil {
			stats.CategoriesFailed++
			log.Warn(ctx, "filter check failed", logger.Error(err))
		}
	}
	return nil
}

func newBar(cfg *Config, n int) *progressbar.ProgressBar {
	if cfg.Progress == nil || n == 0 {
		return nil
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(cfg.Progress),
		progressbar.OptionSetDescription("🔍 searching"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("queries"),
		progressbar.OptionShowIts(),
		progressbar.OptionClearOnFinish(),
	)
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.QueriesChecked) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("queriesGenerated", stats.QueriesGenerated),
		logger.Int("queriesChecked", stats.QueriesChecked),
		logger.Int("queriesFailed", stats.QueriesFailed),
		logger.Int("categoriesChecked", stats.CategoriesChecked),
		logger.Int("categoriesFailed", stats.CategoriesFailed),
		logger.Bool("sessionChecked", stats.SessionChecked),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("queriesPerSecond", perSecond))
}
