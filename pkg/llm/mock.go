package llm

import (
	"context"
	"fmt"
)

// MockClient is a configurable mock for testing provider behavior.
// Set the function field to control responses in tests.
type MockClient struct {
	// GenerateResponseFunc is called when GenerateResponse is invoked.
	// If nil, returns empty string and nil error.
	GenerateResponseFunc func(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	// Endpoint is returned by GetEndpoint. Defaults to "http://mock-endpoint".
	Endpoint string

	// Call tracking for verification
	GenerateResponseCalls int
}

// NewMockClient creates a new mock with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		Model:    "mock-model",
		Endpoint: "http://mock-endpoint",
	}
}

// GenerateResponse implements Client.
func (m *MockClient) GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error) {
	m.GenerateResponseCalls++
	if m.GenerateResponseFunc != nil {
		return m.GenerateResponseFunc(ctx, prompt, systemMessage, temperature)
	}
	return "", nil
}

// GetModel implements Client.
func (m *MockClient) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// GetEndpoint implements Client.
func (m *MockClient) GetEndpoint() string {
	if m.Endpoint == "" {
		return "http://mock-endpoint"
	}
	return m.Endpoint
}

// Ensure MockClient implements Client at compile time.
var _ Client = (*MockClient)(nil)

// MockFactory is a configurable mock for testing client creation.
// Nil clients simulate an unconfigured provider.
type MockFactory struct {
	LocalClient  *MockClient
	RemoteClient *MockClient

	// Call tracking: models requested per provider
	LocalModels  []string
	RemoteModels []string
}

// Local implements ClientFactory.
func (f *MockFactory) Local(model string) (Client, error) {
	f.LocalModels = append(f.LocalModels, model)
	if f.LocalClient == nil {
		return nil, fmt.Errorf("local provider not configured in mock")
	}
	return f.LocalClient, nil
}

// Remote implements ClientFactory.
func (f *MockFactory) Remote(model string) (Client, error) {
	f.RemoteModels = append(f.RemoteModels, model)
	if f.RemoteClient == nil {
		return nil, fmt.Errorf("remote provider not configured in mock")
	}
	return f.RemoteClient, nil
}

// Ensure MockFactory implements ClientFactory at compile time.
var _ ClientFactory = (*MockFactory)(nil)
