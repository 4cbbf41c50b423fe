package llm

import (
	"go.uber.org/zap"

	"github.com/zhgao/banking-metadata-description-ai/pkg/config"
)

// ClientFactory creates provider clients, optionally overriding the
// configured model name. The comparison flow uses overrides to run the
// same chain against two different models.
// Use this interface for dependency injection and testing.
type ClientFactory interface {
	// Local returns a client for the configured local endpoint, or an
	// error when no local endpoint is configured.
	Local(model string) (Client, error)

	// Remote returns a client for the managed remote API, or an error
	// when no API key is configured.
	Remote(model string) (Client, error)
}

// Factory creates clients from server configuration.
type Factory struct {
	local  config.LocalAIConfig
	remote config.RemoteAIConfig
	logger *zap.Logger
}

// NewFactory creates a new factory.
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		local:  cfg.LocalAI,
		remote: cfg.RemoteAI,
		logger: logger,
	}
}

// Local implements ClientFactory. An empty model uses the configured default.
func (f *Factory) Local(model string) (Client, error) {
	if model == "" {
		model = f.local.Model
	}
	return NewOpenAIClient(&OpenAIConfig{
		Endpoint: f.local.BaseURL,
		Model:    model,
		APIKey:   f.local.APIKey,
	}, f.logger)
}

// Remote implements ClientFactory. An empty model uses the configured default.
func (f *Factory) Remote(model string) (Client, error) {
	if model == "" {
		model = f.remote.Model
	}
	return NewAnthropicClient(&AnthropicConfig{
		APIKey: f.remote.APIKey,
		Model:  model,
	}, f.logger)
}

// Ensure Factory implements ClientFactory at compile time.
var _ ClientFactory = (*Factory)(nil)
