package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/lumina/internal/adapters/fixture"
	"github.com/okian/lumina/internal/adapters/tui"
	"github.com/okian/lumina/pkg/logger"
)

func newBrowseCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog in the terminal",
		Long: `Browse the catalog in an interactive terminal UI.

Keys: tab moves between search, categories and books; enter selects;
space expands a category; m toggles the menu on narrow terminals;
/ jumps to search; q quits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(ctx, cmd, flags)
			if err != nil {
				return err
			}
			store, err := fixture.Load(ctx, cfg.CatalogPath)
			if err != nil {
				return err
			}
			// the terminal belongs to the UI; nothing is logged
			return tui.Run(ctx, store.Catalog(ctx),
				tui.WithCartCount(cfg.CartCount),
				tui.WithLogger(logger.NewNop()),
			)
		},
	}
}
