package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/roomcraft/roomcraft/internal/models"
	"github.com/roomcraft/roomcraft/internal/providers"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

type fakeProvider struct {
	reply string
	err   error
	calls []providers.Config
}

func (f *fakeProvider) GenerateText(ctx context.Context, config providers.Config) (string, error) {
	f.calls = append(f.calls, config)
	return f.reply, f.err
}

var nookCatalog = []models.CatalogItem{
	{ID: "1", Title: "Reading Chair", Description: "Soft wingback chair", Category: "Chairs"},
	{ID: "2", Title: "Floor Lamp", Description: "Warm light", Category: "Lighting"},
	{ID: "3", Title: "Steel Desk", Description: "Industrial desk", Category: "Desks"},
}

func TestRecommendCozyReadingNook(t *testing.T) {
	provider := &fakeProvider{reply: "```json\n{\"recommendedIds\":[\"1\",\"2\"],\"theme\":\"COZY\"}\n```"}
	svc := NewService(provider, WithModel("test-model"))

	rec, err := svc.Recommend(context.Background(), nookCatalog, "cozy reading nook")
	assert.NilError(t, err)
	assert.DeepEqual(t, rec, &models.Recommendation{RecommendedIDs: []string{"1", "2"}, Theme: models.ThemeCozy})

	assert.Assert(t, is.Len(provider.calls, 1))
	call := provider.calls[0]
	assert.Equal(t, call.Model, "test-model")
	assert.Equal(t, call.System, systemInstruction)
	assert.Assert(t, call.JSON)
	assert.Assert(t, is.Contains(call.Prompt, `User desires: "cozy reading nook"`))
	assert.Assert(t, is.Contains(call.Prompt, "ID: 3, Title: Steel Desk, Description: Industrial desk, Category: Desks"))
	assert.Assert(t, is.Contains(call.Prompt, "[cozy, modern, gothic, nature, urban]"))
}

func TestRecommendRejectsMalformedRequest(t *testing.T) {
	provider := &fakeProvider{reply: `{"recommendedIds":[],"theme":"cozy"}`}
	svc := NewService(provider)

	_, err := svc.Recommend(context.Background(), nookCatalog, "   ")
	assert.Assert(t, errors.Is(err, ErrMalformedRequest))

	_, err = svc.Recommend(context.Background(), nil, "cozy")
	assert.Assert(t, errors.Is(err, ErrMalformedRequest))

	assert.Assert(t, is.Len(provider.calls, 0), "no model call may be attempted")
}

func TestRecommendModelFailure(t *testing.T) {
	upstream := errors.New("connection refused")
	svc := NewService(&fakeProvider{err: upstream})

	rec, err := svc.Recommend(context.Background(), nookCatalog, "cozy")
	assert.Assert(t, rec == nil)
	assert.Assert(t, errors.Is(err, ErrRecommendationFailed))
	assert.Assert(t, errors.Is(err, upstream))

	var recErr *Error
	assert.Assert(t, errors.As(err, &recErr))
	assert.Equal(t, recErr.Stage, "model call")
}

func TestRecommendParseFailure(t *testing.T) {
	svc := NewService(&fakeProvider{reply: "I think you would like the chair."})

	_, err := svc.Recommend(context.Background(), nookCatalog, "cozy")
	assert.Assert(t, errors.Is(err, ErrRecommendationFailed))

	var recErr *Error
	assert.Assert(t, errors.As(err, &recErr))
	assert.Equal(t, recErr.Stage, "parse")
}

func TestParseRecommendation(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		max       int
		wantIDs   []string
		wantTheme models.Theme
		wantErr   bool
	}{
		{
			name:      "compound identifiers",
			reply:     `{"recommendedIds":["gid://shopify/Product/123","456"],"theme":"modern"}`,
			wantIDs:   []string{"123", "456"},
			wantTheme: models.ThemeModern,
		},
		{
			name:      "numeric identifiers",
			reply:     `{"recommendedIds":[123, 456],"theme":"Urban"}`,
			wantIDs:   []string{"123", "456"},
			wantTheme: models.ThemeUrban,
		},
		{
			name:      "unknown theme",
			reply:     `{"recommendedIds":["1"],"theme":"Victorian"}`,
			wantIDs:   []string{"1"},
			wantTheme: models.ThemeCozy,
		},
		{
			name:      "missing theme",
			reply:     `{"recommendedIds":["1"]}`,
			wantIDs:   []string{"1"},
			wantTheme: models.ThemeCozy,
		},
		{
			name:      "null theme",
			reply:     `{"recommendedIds":["1"],"theme":null}`,
			wantIDs:   []string{"1"},
			wantTheme: models.ThemeCozy,
		},
		{
			name:      "non-string theme",
			reply:     `{"recommendedIds":["1"],"theme":7}`,
			wantIDs:   []string{"1"},
			wantTheme: models.ThemeCozy,
		},
		{
			name:      "duplicates keep first rank",
			reply:     `{"recommendedIds":["gid://shopify/Product/2","1","2"],"theme":"nature"}`,
			wantIDs:   []string{"2", "1"},
			wantTheme: models.ThemeNature,
		},
		{
			name:      "order is preserved",
			reply:     `{"recommendedIds":["9","3","7"],"theme":"gothic"}`,
			wantIDs:   []string{"9", "3", "7"},
			wantTheme: models.ThemeGothic,
		},
		{
			name:      "capped",
			reply:     `{"recommendedIds":["1","2","3"],"theme":"cozy"}`,
			max:       2,
			wantIDs:   []string{"1", "2"},
			wantTheme: models.ThemeCozy,
		},
		{
			name:      "empty list",
			reply:     `{"recommendedIds":[],"theme":"cozy"}`,
			wantIDs:   []string{},
			wantTheme: models.ThemeCozy,
		},
		{name: "missing ids", reply: `{"theme":"cozy"}`, wantErr: true},
		{name: "invalid json", reply: `{"recommendedIds":`, wantErr: true},
		{name: "object identifier", reply: `{"recommendedIds":[{"id":"1"}]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit := tt.max
			if limit == 0 {
				limit = DefaultMaxResults
			}
			rec, err := ParseRecommendation(tt.reply, limit)
			if tt.wantErr {
				assert.Assert(t, err != nil)
				return
			}
			assert.NilError(t, err)
			assert.DeepEqual(t, rec.RecommendedIDs, tt.wantIDs)
			assert.Equal(t, rec.Theme, tt.wantTheme)
		})
	}
}

func TestFencedAndBareRepliesMatch(t *testing.T) {
	payload := `{"recommendedIds":["gid://shopify/Product/1","2"],"theme":"Modern"}`

	bare, err := ParseRecommendation(payload, DefaultMaxResults)
	assert.NilError(t, err)

	for _, wrapped := range []string{
		"```json\n" + payload + "\n```",
		"```\n" + payload + "\n```",
		"```json " + payload + " ```",
	} {
		fenced, err := ParseRecommendation(wrapped, DefaultMaxResults)
		assert.NilError(t, err)
		assert.DeepEqual(t, fenced, bare)
	}
}

func TestNewProvider(t *testing.T) {
	for _, name := range []string{"gemini", "openai", "ollama"} {
		p, err := NewProvider(name)
		assert.NilError(t, err)
		assert.Assert(t, p != nil)
		assert.Assert(t, DefaultModel(name) != "")
	}

	_, err := NewProvider("bard")
	assert.Assert(t, err != nil)
	assert.Assert(t, strings.Contains(err.Error(), "unsupported provider"))
}
