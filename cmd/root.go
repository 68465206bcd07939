package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/roomcraft/roomcraft/internal/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func (o *rootOptions) load() (*config.Config, error) {
	return config.Load(o.configPath)
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "roomcraft",
		Short: "AR furniture designer backend with LLM-powered recommendations",
		Long: `Roomcraft turns a free-text room description into a themed furniture inventory.

It aggregates products from Shopify storefronts, ranks them with an LLM, keeps the
shared room layout and drives the AR scene that renders it.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newRecommendCmd(opts))
	cmd.AddCommand(newCatalogCmd(opts))
	cmd.AddCommand(newSyncCmd(opts))
	cmd.AddCommand(newEditCmd(opts))

	return cmd
}
