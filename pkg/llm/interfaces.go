// Package llm provides the model clients used by the description
// generation fallback chain: an OpenAI-compatible client for local
// endpoints and an Anthropic client for the managed remote API.
package llm

import (
	"context"
)

// Client defines the interface for a single description provider.
// Use this interface for dependency injection to enable mocking in tests.
type Client interface {
	// GenerateResponse generates a chat completion for the given prompt
	// and system message and returns the raw response text.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetEndpoint returns the configured endpoint.
	GetEndpoint() string
}

// Ensure both clients implement Client at compile time.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*AnthropicClient)(nil)
)
