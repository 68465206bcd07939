package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/roomcraft/roomcraft/internal/editor"
	"github.com/roomcraft/roomcraft/internal/layoutapi"
	"github.com/roomcraft/roomcraft/internal/models"
	"github.com/spf13/cobra"
)

type remoteDesigner struct {
	client *layoutapi.Client
}

func (d remoteDesigner) Design(ctx context.Context, prompt string) ([]models.CatalogItem, models.Theme, error) {
	result, err := d.client.Design(ctx, prompt)
	if err != nil {
		return nil, "", err
	}
	return result.Products, result.Theme, nil
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the room layout from the terminal",
		Long: `Starts a line-oriented grid editor against a Roomcraft server.

Every accepted change pushes the whole layout to the server, where the AR scene
picks it up on its next poll. Type help for the command list.`,
		Example: `  roomcraft edit --server http://localhost:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if server == "" {
				server = cfg.Sync.Server
			}

			client := layoutapi.New(server, 2*time.Minute)
			ed := editor.New(cfg.LayoutGrid(), client)

			current, err := client.Fetch(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load layout from %s: %w", server, err)
			}
			if err := ed.Load(current); err != nil {
				return fmt.Errorf("server layout does not fit the grid: %w", err)
			}

			shell := editor.NewShell(ed, remoteDesigner{client: client}, cmd.OutOrStdout())
			return shell.Run(cmd.Context(), cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Roomcraft server URL (defaults to sync.server)")

	return cmd
}
