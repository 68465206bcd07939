package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/roomcraft/roomcraft/internal/models"
	"golang.org/x/sync/errgroup"
)

// Aggregator fans a prompt out to every source and joins the results
type Aggregator struct {
	sources     []Source
	limit       int
	concurrency int
}

// NewAggregator creates an aggregator over sources. limit caps the items
// taken from each source; concurrency bounds in-flight source calls
// (0 means one goroutine per source).
func NewAggregator(sources []Source, limit, concurrency int) *Aggregator {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Aggregator{
		sources:     sources,
		limit:       limit,
		concurrency: concurrency,
	}
}

// Sources returns the configured sources in call order
func (a *Aggregator) Sources() []Source {
	return a.sources
}

// Fetch queries every source in parallel and returns the concatenation of
// successful results in source order. A failing source is logged and
// contributes nothing; Fetch itself never fails and returns only after every
// source has settled.
func (a *Aggregator) Fetch(ctx context.Context, prompt string) []models.CatalogItem {
	results := make([][]models.CatalogItem, len(a.sources))

	var g errgroup.Group
	if a.concurrency > 0 {
		g.SetLimit(a.concurrency)
	}

	for i, source := range a.sources {
		g.Go(func() error {
			start := time.Now()
			items, err := source.Search(ctx, prompt, a.limit)
			if err != nil {
				slog.Error("Catalog source failed", "source", source.Name(), "err", err, "duration", time.Since(start))
				return nil
			}
			results[i] = normalize(items, source.Name(), a.limit)
			slog.Debug("Catalog source settled", "source", source.Name(), "items", len(results[i]), "duration", time.Since(start))
			return nil
		})
	}

	// Source errors are absorbed above, so Wait only acts as the barrier
	_ = g.Wait()

	var all []models.CatalogItem
	for _, items := range results {
		all = append(all, items...)
	}

	slog.Info("Catalog aggregated", "sources", len(a.sources), "items", len(all))
	return all
}

func normalize(items []models.CatalogItem, source string, limit int) []models.CatalogItem {
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]models.CatalogItem, 0, len(items))
	for _, item := range items {
		item.ID = models.NormalizeID(item.ID)
		if item.ID == "" {
			continue
		}
		if item.Source == "" {
			item.Source = source
		}
		out = append(out, item)
	}
	return out
}
