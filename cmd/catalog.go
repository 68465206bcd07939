package cmd

import (
	"fmt"
	"log/slog"

	"github.com/roomcraft/roomcraft/internal/catalog"
	"github.com/spf13/cobra"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog snapshot tools",
	}

	cmd.AddCommand(newCatalogExportCmd(opts))
	return cmd
}

func newCatalogExportCmd(opts *rootOptions) *cobra.Command {
	var prompt string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Aggregate products for a prompt and write a snapshot",
		Long: `Queries every configured catalog source and writes the aggregated products
to a .parquet or .jsonl snapshot. Snapshots can be listed under catalog.snapshots
in the config file to serve products offline.`,
		Example: `  # Snapshot sofas from every shop
  roomcraft catalog export --prompt sofa --output sofas.parquet

  # JSON lines for inspection
  roomcraft catalog export --prompt lamp --output lamps.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			items := newAggregator(cfg).Fetch(cmd.Context(), prompt)
			if len(items) == 0 {
				return fmt.Errorf("no products found for %q", prompt)
			}

			if err := catalog.WriteSnapshot(output, items); err != nil {
				return err
			}
			slog.Info("Catalog snapshot written", "path", output, "items", len(items))
			return nil
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "", "Search text sent to every source (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "catalog.parquet", "Snapshot path (.parquet or .jsonl)")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}
