package design

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/roomcraft/roomcraft/internal/models"
	"github.com/roomcraft/roomcraft/internal/recommend"
)

// ErrSuperseded is returned to the caller of a cycle that a newer prompt replaced
var ErrSuperseded = errors.New("design cycle superseded by a newer prompt")

// Catalog returns candidate products for a prompt
type Catalog interface {
	Fetch(ctx context.Context, prompt string) []models.CatalogItem
}

// Recommender ranks candidates against a prompt
type Recommender interface {
	Recommend(ctx context.Context, items []models.CatalogItem, prompt string) (*models.Recommendation, error)
}

// Resetter clears the shared layout at the start of a cycle
type Resetter interface {
	Replace(ctx context.Context, layout models.Layout) error
}

// Result is the inventory produced by one design cycle
type Result struct {
	CycleID        string               `json:"cycleId" yaml:"cycleId"`
	Theme          models.Theme         `json:"theme" yaml:"theme"`
	RecommendedIDs []string             `json:"recommendedIds" yaml:"recommendedIds"`
	Products       []models.CatalogItem `json:"products" yaml:"products"`
}

// Pipeline runs prompt → catalog → recommendation → inventory. Only one
// cycle is live at a time: starting a cycle cancels the previous one.
type Pipeline struct {
	catalog     Catalog
	recommender Recommender
	store       Resetter
	featured    map[models.Theme][]models.CatalogItem

	mu      sync.Mutex
	current string
	cancel  context.CancelFunc
}

// New creates a pipeline. featured lists extra items appended to the
// inventory for each theme; store may be nil.
func New(catalog Catalog, recommender Recommender, store Resetter, featured map[models.Theme][]models.CatalogItem) *Pipeline {
	return &Pipeline{
		catalog:     catalog,
		recommender: recommender,
		store:       store,
		featured:    featured,
	}
}

// Run executes one design cycle for prompt
func (p *Pipeline) Run(ctx context.Context, prompt string) (*Result, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("prompt is required: %w", recommend.ErrMalformedRequest)
	}

	ctx, id := p.begin(ctx)
	defer p.end(id)

	start := time.Now()
	slog.Info("Design cycle started", "cycle", id, "prompt", prompt)

	if p.store != nil {
		if err := p.store.Replace(ctx, models.Layout{}); err != nil {
			if p.superseded(id) {
				return nil, ErrSuperseded
			}
			return nil, fmt.Errorf("failed to reset layout: %w", err)
		}
	}

	items := p.catalog.Fetch(ctx, prompt)
	if p.superseded(id) {
		return nil, ErrSuperseded
	}

	rec := &models.Recommendation{RecommendedIDs: []string{}, Theme: models.DefaultTheme}
	if len(items) == 0 {
		slog.Warn("Catalog returned no products, skipping recommendation", "cycle", id)
	} else {
		var err error
		rec, err = p.recommender.Recommend(ctx, items, prompt)
		if p.superseded(id) {
			return nil, ErrSuperseded
		}
		if err != nil {
			return nil, err
		}
	}

	result := &Result{
		CycleID:        id,
		Theme:          rec.Theme,
		RecommendedIDs: rec.RecommendedIDs,
		Products:       p.inventory(items, rec),
	}

	slog.Info("Design cycle finished",
		"cycle", id,
		"theme", result.Theme,
		"candidates", len(items),
		"inventory", len(result.Products),
		"duration", time.Since(start))
	return result, nil
}

// inventory returns the recommended products in rank order followed by the
// theme's featured items that are not already present. Recommended IDs that
// do not match a candidate are dropped.
func (p *Pipeline) inventory(items []models.CatalogItem, rec *models.Recommendation) []models.CatalogItem {
	byID := make(map[string]models.CatalogItem, len(items))
	for _, item := range items {
		if _, ok := byID[item.ID]; !ok {
			byID[item.ID] = item
		}
	}

	products := make([]models.CatalogItem, 0, len(rec.RecommendedIDs))
	present := make(map[string]bool, len(rec.RecommendedIDs))
	for _, id := range rec.RecommendedIDs {
		item, ok := byID[id]
		if !ok {
			slog.Debug("Dropping unknown recommended item", "item", id)
			continue
		}
		if present[id] {
			continue
		}
		present[id] = true
		products = append(products, item)
	}

	for _, item := range p.featured[rec.Theme] {
		item.ID = models.NormalizeID(item.ID)
		if present[item.ID] {
			continue
		}
		present[item.ID] = true
		products = append(products, item)
	}
	return products
}

func (p *Pipeline) begin(ctx context.Context) (context.Context, string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		slog.Info("Cancelling superseded design cycle", "cycle", p.current)
		p.cancel()
	}
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(ctx)
	p.current = id
	p.cancel = cancel
	return ctx, id
}

func (p *Pipeline) end(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == id && p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Pipeline) superseded(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != id
}
