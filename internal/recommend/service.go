package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/roomcraft/roomcraft/internal/gemini"
	"github.com/roomcraft/roomcraft/internal/models"
	"github.com/roomcraft/roomcraft/internal/ollama"
	"github.com/roomcraft/roomcraft/internal/openai"
	"github.com/roomcraft/roomcraft/internal/providers"
)

// DefaultMaxResults caps how many identifiers a recommendation may carry
const DefaultMaxResults = 15

// Service turns a catalog and a free-text prompt into a validated recommendation
type Service struct {
	provider    providers.Provider
	model       string
	temperature float64
	maxResults  int
}

// Option configures the Service
type Option func(*Service)

// WithModel sets the model name passed to the provider
func WithModel(model string) Option {
	return func(s *Service) {
		s.model = model
	}
}

// WithTemperature sets the sampling temperature
func WithTemperature(temperature float64) Option {
	return func(s *Service) {
		s.temperature = temperature
	}
}

// WithMaxResults caps the number of recommended identifiers
func WithMaxResults(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// NewService creates a recommendation service backed by provider
func NewService(provider providers.Provider, opts ...Option) *Service {
	s := &Service{
		provider:    provider,
		temperature: 0.2,
		maxResults:  DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewProvider returns the provider registered under name
func NewProvider(name string) (providers.Provider, error) {
	switch name {
	case "gemini":
		return gemini.New(), nil
	case "openai":
		return openai.New(), nil
	case "ollama":
		return ollama.New(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}

// DefaultModel returns the model used when none is configured for provider
func DefaultModel(provider string) string {
	switch provider {
	case "gemini":
		model := os.Getenv("GEMINI_MODEL")
		if model == "" {
			return "gemini-2.5-flash-lite"
		}
		return model
	case "openai":
		model := os.Getenv("OPENAI_MODEL")
		if model == "" {
			return "gpt-4o"
		}
		return model
	case "ollama":
		model := os.Getenv("OLLAMA_MODEL")
		if model == "" {
			return "mistral-small3.2:24b"
		}
		return model
	default:
		return ""
	}
}

// Recommend issues exactly one model call for the prompt and returns the
// normalized identifiers and validated theme. Any failure after input
// validation is reported as *Error.
func (s *Service) Recommend(ctx context.Context, items []models.CatalogItem, prompt string) (*models.Recommendation, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrMalformedRequest)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: products are required", ErrMalformedRequest)
	}

	slog.Info("Requesting recommendation", "model", s.model, "products", len(items), "prompt", prompt)

	text, err := s.provider.GenerateText(ctx, providers.Config{
		Model:       s.model,
		Temperature: s.temperature,
		System:      systemInstruction,
		Prompt:      buildPrompt(items, prompt, s.maxResults),
		JSON:        true,
	})
	if err != nil {
		slog.Error("Recommendation model call failed", "model", s.model, "err", err)
		return nil, &Error{Stage: "model call", Err: err}
	}

	rec, err := ParseRecommendation(text, s.maxResults)
	if err != nil {
		slog.Error("Unable to parse recommendation reply", "err", err, "length", len(text))
		return nil, &Error{Stage: "parse", Err: err}
	}

	slog.Info("Recommendation ready", "theme", rec.Theme, "recommended", len(rec.RecommendedIDs))
	return rec, nil
}

// ParseRecommendation decodes a raw model reply. The reply may be wrapped in
// a markdown code fence. Identifiers are normalized to their trailing path
// segment and de-duplicated in model order; the theme falls back to cozy.
func ParseRecommendation(text string, maxResults int) (*models.Recommendation, error) {
	var reply struct {
		RecommendedIDs []json.RawMessage `json:"recommendedIds"`
		Theme          json.RawMessage   `json:"theme"`
	}

	if err := json.Unmarshal([]byte(StripCodeFence(text)), &reply); err != nil {
		return nil, fmt.Errorf("invalid JSON reply: %w", err)
	}
	if reply.RecommendedIDs == nil {
		return nil, errors.New("reply is missing recommendedIds")
	}

	ids := make([]string, 0, len(reply.RecommendedIDs))
	seen := make(map[string]bool, len(reply.RecommendedIDs))
	for _, raw := range reply.RecommendedIDs {
		id, err := models.DecodeID(raw)
		if err != nil {
			return nil, fmt.Errorf("recommendedIds: %w", err)
		}
		id = models.NormalizeID(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
		if maxResults > 0 && len(ids) == maxResults {
			break
		}
	}

	return &models.Recommendation{
		RecommendedIDs: ids,
		Theme:          parseThemeField(reply.Theme),
	}, nil
}

func parseThemeField(raw json.RawMessage) models.Theme {
	var theme string
	if len(raw) == 0 || json.Unmarshal(raw, &theme) != nil {
		return models.DefaultTheme
	}
	return models.ParseTheme(theme)
}
