package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/roomcraft/roomcraft/internal/design"
	"github.com/roomcraft/roomcraft/internal/handlers"
	"github.com/roomcraft/roomcraft/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string
	var staticDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the layout and recommendation API",
		Long: `Starts the Roomcraft HTTP API.

The web client pushes layouts to /api/update-grid and requests recommendations
from /api/recommend or /api/design; the AR scene polls /api/get-grid.`,
		Example: `  # Start server on the configured port (default 8080)
  roomcraft serve

  # Persist the layout in SQLite and serve a built web client
  STORE_DRIVER=sqlite roomcraft serve --port 3000 --static ./webapp/dist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			store, closeStore, err := storage.Open(cfg.Store.Driver, cfg.Store.Path)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					slog.Error("Failed to close layout store", "err", err)
				}
			}()

			recommender, err := newRecommender(cfg)
			if err != nil {
				return err
			}
			aggregator := newAggregator(cfg)

			handler := handlers.New(handlers.Config{
				Store:       store,
				Grid:        cfg.LayoutGrid(),
				Catalog:     aggregator,
				Recommender: recommender,
				Pipeline:    design.New(aggregator, recommender, store, cfg.Featured),
				StaticDir:   staticDir,
			})

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:    addr,
				Handler: handler.Routes(),
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Roomcraft API available",
					"addr", addr,
					"url", "http://localhost"+addr,
					"store", cfg.Store.Driver,
					"provider", cfg.Recommend.Provider,
					"sources", len(aggregator.Sources()))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config and PORT)")
	cmd.Flags().StringVar(&staticDir, "static", "", "Directory with a web client to serve under /static/")

	return cmd
}
