package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the description service.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Provider endpoints for description generation
	LocalAI  LocalAIConfig  `yaml:"local_ai"`
	RemoteAI RemoteAIConfig `yaml:"remote_ai"`

	// Generation pipeline settings
	Generation GenerationConfig `yaml:"generation"`

	// Static data resources and append-only logs
	Data DataConfig `yaml:"data"`
}

// LocalAIConfig holds the OpenAI-compatible local model endpoint
// (Ollama, vLLM, or similar). Optional; the pipeline falls through to
// the remote provider or the rule engine when unset.
type LocalAIConfig struct {
	BaseURL string `yaml:"base_url" env:"LOCAL_AI_BASE_URL" env-default:""`
	Model   string `yaml:"model" env:"LOCAL_AI_MODEL" env-default:""`
	APIKey  string `yaml:"-" env:"LOCAL_AI_API_KEY"` // Secret - not in YAML; optional for local endpoints
}

// IsAvailable returns true if the local provider is configured.
func (c *LocalAIConfig) IsAvailable() bool {
	return c.BaseURL != "" && c.Model != ""
}

// RemoteAIConfig holds the managed Anthropic API settings.
type RemoteAIConfig struct {
	Model  string `yaml:"model" env:"REMOTE_AI_MODEL" env-default:"claude-3-5-haiku-latest"`
	APIKey string `yaml:"-" env:"ANTHROPIC_API_KEY"` // Secret - not in YAML
}

// IsAvailable returns true if the remote provider is configured.
func (c *RemoteAIConfig) IsAvailable() bool {
	return c.APIKey != "" && c.Model != ""
}

// GenerationConfig holds fallback-chain and review-threshold settings.
type GenerationConfig struct {
	// PreferLocal controls whether the local endpoint is attempted at all.
	// When false the chain starts at the remote provider.
	PreferLocal bool `yaml:"prefer_local" env:"GENERATION_PREFER_LOCAL" env-default:"true"`

	// ConfidenceThreshold flags generated columns below it for human review.
	ConfidenceThreshold float64 `yaml:"confidence_threshold" env:"CONFIDENCE_THRESHOLD" env-default:"0.75"`

	// MaxSampleValues caps how many sample values are sent to a provider per column.
	MaxSampleValues int `yaml:"max_sample_values" env:"MAX_SAMPLE_VALUES" env-default:"5"`

	// RequestTimeoutSeconds bounds each outbound provider call. There are no
	// retries; a timed-out attempt falls through to the next provider.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" env:"GENERATION_REQUEST_TIMEOUT_SECONDS" env-default:"20"`
}

// DataConfig holds paths for static resources and append-only JSONL logs.
type DataConfig struct {
	TermsPath      string `yaml:"terms_path" env:"BANKING_TERMS_PATH" env-default:"data/banking_terms.yaml"`
	SamplesPath    string `yaml:"samples_path" env:"DEMO_SAMPLES_PATH" env-default:"data/demo_samples.json"`
	ReviewsPath    string `yaml:"reviews_path" env:"REVIEWS_PATH" env-default:"reviews.jsonl"`
	DictionaryPath string `yaml:"dictionary_path" env:"DICTIONARY_PATH" env-default:"dictionary.jsonl"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
// A missing config.yaml is not an error; configuration then comes from
// environment variables and defaults alone.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Generation.ConfidenceThreshold < 0 || c.Generation.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be in [0, 1], got %v", c.Generation.ConfidenceThreshold)
	}
	if c.Generation.MaxSampleValues < 0 {
		return fmt.Errorf("max_sample_values must be >= 0, got %d", c.Generation.MaxSampleValues)
	}
	if c.Generation.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be > 0, got %d", c.Generation.RequestTimeoutSeconds)
	}
	return nil
}
