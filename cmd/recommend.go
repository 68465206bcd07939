package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/roomcraft/roomcraft/internal/design"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRecommendCmd(opts *rootOptions) *cobra.Command {
	var prompt string
	var format string

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend furniture for a prompt",
		Long: `Queries every configured catalog source, asks the LLM to rank the
candidates against the prompt and prints the resulting inventory and theme.`,
		Example: `  # Recommend with the default provider
  roomcraft recommend --prompt "cozy reading nook"

  # Use Ollama and print JSON
  RECOMMEND_PROVIDER=ollama roomcraft recommend --prompt "gothic study" --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" && format != "json" {
				return fmt.Errorf("unsupported format: %s (supported: yaml, json)", format)
			}

			cfg, err := opts.load()
			if err != nil {
				return err
			}
			recommender, err := newRecommender(cfg)
			if err != nil {
				return err
			}

			pipeline := design.New(newAggregator(cfg), recommender, nil, cfg.Featured)
			result, err := pipeline.Run(cmd.Context(), prompt)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(result); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "", "Room description (required)")
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format (yaml or json)")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}
