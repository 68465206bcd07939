package design

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/roomcraft/roomcraft/internal/models"
	"github.com/roomcraft/roomcraft/internal/recommend"
	"gotest.tools/v3/assert"
)

type staticCatalog struct {
	items []models.CatalogItem
	calls int
}

func (c *staticCatalog) Fetch(ctx context.Context, prompt string) []models.CatalogItem {
	c.calls++
	return c.items
}

type fakeRecommender struct {
	rec   *models.Recommendation
	err   error
	block chan struct{}
	calls int
}

func (f *fakeRecommender) Recommend(ctx context.Context, items []models.CatalogItem, prompt string) (*models.Recommendation, error) {
	f.calls++
	if f.block != nil {
		close(f.block)
		<-ctx.Done()
		return nil, &recommend.Error{Stage: "model call", Err: ctx.Err()}
	}
	return f.rec, f.err
}

type recordingStore struct {
	writes []models.Layout
}

func (s *recordingStore) Replace(ctx context.Context, layout models.Layout) error {
	s.writes = append(s.writes, layout)
	return nil
}

var candidates = []models.CatalogItem{
	{ID: "101", Title: "Oak Armchair", Category: "Chairs"},
	{ID: "205", Title: "Floor Lamp", Category: "Lighting"},
	{ID: "309", Title: "Steel Desk", Category: "Desks"},
}

var featured = map[models.Theme][]models.CatalogItem{
	models.ThemeCozy: {
		{ID: "gid://shopify/Product/7198596628549", Title: "Avery Velvet Reversible Corner Sofa Bed"},
		{ID: "101", Title: "Oak Armchair"},
	},
}

func TestRunBuildsInventoryInRankOrder(t *testing.T) {
	store := &recordingStore{}
	rec := &fakeRecommender{rec: &models.Recommendation{RecommendedIDs: []string{"205", "999", "101"}, Theme: models.ThemeCozy}}
	p := New(&staticCatalog{items: candidates}, rec, store, featured)

	result, err := p.Run(context.Background(), "cozy reading nook")
	assert.NilError(t, err)

	assert.Assert(t, result.CycleID != "")
	assert.Equal(t, result.Theme, models.ThemeCozy)
	assert.DeepEqual(t, result.RecommendedIDs, []string{"205", "999", "101"})

	var ids []string
	for _, item := range result.Products {
		ids = append(ids, item.ID)
	}
	assert.DeepEqual(t, ids, []string{"205", "101", "7198596628549"})

	assert.Equal(t, len(store.writes), 1)
	assert.Equal(t, len(store.writes[0]), 0)
}

func TestRunRejectsEmptyPrompt(t *testing.T) {
	catalog := &staticCatalog{items: candidates}
	p := New(catalog, &fakeRecommender{}, nil, nil)

	_, err := p.Run(context.Background(), "")
	assert.Assert(t, errors.Is(err, recommend.ErrMalformedRequest))
	assert.Equal(t, catalog.calls, 0)
}

func TestRunRejectsBlankPromptBeforeAnyCall(t *testing.T) {
	for _, catalog := range []*staticCatalog{{items: candidates}, {}} {
		store := &recordingStore{}
		rec := &fakeRecommender{}
		p := New(catalog, rec, store, featured)

		result, err := p.Run(context.Background(), "   \t\n")
		assert.Assert(t, errors.Is(err, recommend.ErrMalformedRequest), "got %v", err)
		assert.Assert(t, result == nil)
		assert.Equal(t, catalog.calls, 0)
		assert.Equal(t, rec.calls, 0)
		assert.Equal(t, len(store.writes), 0)
	}
}

func TestRunSkipsRecommendationWithoutCandidates(t *testing.T) {
	rec := &fakeRecommender{}
	p := New(&staticCatalog{}, rec, nil, featured)

	result, err := p.Run(context.Background(), "gothic study")
	assert.NilError(t, err)
	assert.Equal(t, rec.calls, 0)
	assert.Equal(t, result.Theme, models.DefaultTheme)
	assert.Equal(t, len(result.RecommendedIDs), 0)
	assert.Equal(t, len(result.Products), 2)
}

func TestRunPropagatesRecommendationFailure(t *testing.T) {
	rec := &fakeRecommender{err: &recommend.Error{Stage: "parse", Err: errors.New("no json")}}
	p := New(&staticCatalog{items: candidates}, rec, nil, nil)

	_, err := p.Run(context.Background(), "minimal office")
	assert.Assert(t, errors.Is(err, recommend.ErrRecommendationFailed))
}

func TestNewPromptSupersedesRunningCycle(t *testing.T) {
	blocked := &fakeRecommender{block: make(chan struct{})}
	p := New(&staticCatalog{items: candidates}, blocked, nil, nil)

	firstErr := make(chan error, 1)
	go func() {
		_, err := p.Run(context.Background(), "first prompt")
		firstErr <- err
	}()

	select {
	case <-blocked.block:
	case <-time.After(time.Second):
		t.Fatal("first cycle never reached the recommender")
	}

	p.recommender = &fakeRecommender{rec: &models.Recommendation{RecommendedIDs: []string{"309"}, Theme: models.ThemeUrban}}
	result, err := p.Run(context.Background(), "second prompt")
	assert.NilError(t, err)
	assert.Equal(t, result.Theme, models.ThemeUrban)

	select {
	case err := <-firstErr:
		assert.Assert(t, errors.Is(err, ErrSuperseded), "got %v", err)
	case <-time.After(time.Second):
		t.Fatal("first cycle was not cancelled")
	}
}
