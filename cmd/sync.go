package cmd

import (
	"log/slog"
	"time"

	"github.com/roomcraft/roomcraft/internal/layoutapi"
	"github.com/roomcraft/roomcraft/internal/syncloop"
	"github.com/spf13/cobra"
)

func newSyncCmd(opts *rootOptions) *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Poll the layout and reconcile a logging AR scene",
		Long: `Runs the AR sync loop against a Roomcraft server until interrupted.

Every poll fetches the current layout, converts cells to scene positions and
logs the objects placed, moved or removed. Failed polls back off exponentially.`,
		Example: `  # Follow a local server
  roomcraft sync --server http://localhost:8080 --verbose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if server == "" {
				server = cfg.Sync.Server
			}

			reconciler := syncloop.NewReconciler(
				cfg.Sync.Assets,
				syncloop.NewNormalizer(cfg.LayoutGrid(), cfg.Sync.Scale),
				syncloop.LogScene{},
			)
			poller := syncloop.New(layoutapi.New(server, 10*time.Second), reconciler,
				syncloop.WithCadence(cfg.Sync.Cadence),
				syncloop.WithInitialDelay(cfg.Sync.InitialDelay),
				syncloop.WithBackoff(cfg.Sync.BackoffBase, cfg.Sync.BackoffMax),
			)

			poller.Run(cmd.Context())
			slog.Info("Sync loop stopped", "placed", reconciler.Placed(), "recoveries", poller.Recoveries())
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Roomcraft server URL (defaults to sync.server)")

	return cmd
}
