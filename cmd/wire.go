package cmd

import (
	"log/slog"

	"github.com/roomcraft/roomcraft/internal/catalog"
	"github.com/roomcraft/roomcraft/internal/config"
	"github.com/roomcraft/roomcraft/internal/recommend"
)

func newAggregator(cfg *config.Config) *catalog.Aggregator {
	return catalog.NewAggregator(cfg.Sources(), cfg.Catalog.Limit, cfg.Catalog.Concurrency)
}

func newRecommender(cfg *config.Config) (*recommend.Service, error) {
	provider, err := recommend.NewProvider(cfg.Recommend.Provider)
	if err != nil {
		return nil, err
	}

	model := cfg.Recommend.Model
	if model == "" {
		model = recommend.DefaultModel(cfg.Recommend.Provider)
	}
	slog.Debug("Recommendation provider selected", "provider", cfg.Recommend.Provider, "model", model)

	return recommend.NewService(provider,
		recommend.WithModel(model),
		recommend.WithTemperature(cfg.Recommend.Temperature),
		recommend.WithMaxResults(cfg.Recommend.MaxResults),
	), nil
}
