package providers

import (
	"context"
)

// Config represents the configuration for a single LLM call
type Config struct {
	Model       string
	Temperature float64
	// System is the persona/task instruction sent ahead of the prompt
	System string
	Prompt string
	// JSON asks the provider for a JSON-only reply when the backend supports it
	JSON bool
}

// Provider defines the interface for an LLM provider
type Provider interface {
	GenerateText(ctx context.Context, config Config) (string, error)
}
