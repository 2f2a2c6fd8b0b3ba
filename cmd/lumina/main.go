// Command lumina runs the Lumina Books storefront.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/lumina/internal/config"
	"github.com/okian/lumina/pkg/logger"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	catalog string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "lumina",
		Short: "Lumina Books storefront",
		Long: `Lumina Books is a small bookstore storefront: a searchable catalog, a
category tree and a featured author, served over HTTP or browsed from the
terminal.

Configuration is layered: defaults, then the YAML file named by
LUMINA_CONFIG, then LUMINA_* environment variables, then flags.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.catalog, "catalog", "", "catalog fixture (JSON or YAML); empty uses the embedded catalog")

	root.AddCommand(newServeCmd(flags), newBrowseCmd(flags))
	return root
}

// loadConfig reads layered configuration and applies flag overrides.
func loadConfig(ctx context.Context, cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if f := cmd.Flag("catalog"); f != nil && f.Changed {
		cfg.CatalogPath = flags.catalog
	}
	return cfg, nil
}

// applyLogLevel sets the configured level, falling back to info.
func applyLogLevel(ctx context.Context, log logger.Logger, lvl string) {
	if err := logger.SetLevelString(lvl); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", lvl), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
