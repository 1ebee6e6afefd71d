package generic

import (
	"log/slog"

	"mercator-hq/solace/pkg/providers"
	"mercator-hq/solace/pkg/providers/openai"
)

// Provider is a generic OpenAI-compatible provider adapter.
// It supports any server that implements the OpenAI chat completions API,
// such as Ollama, LM Studio or vLLM.
//
// This adapter reuses the OpenAI request/response format but requires an
// explicit base URL and treats the API key as optional.
type Provider struct {
	*openai.Provider
}

// placeholderAPIKey is sent when no key is configured; local servers ignore it.
const placeholderAPIKey = "not-required"

// NewProvider creates a new generic OpenAI-compatible provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "generic",
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.BaseURL == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "base_url",
			Message:  "base URL is required for generic provider",
		}
	}

	if config.APIKey == "" {
		config.APIKey = placeholderAPIKey
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 10
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 5
	}

	openaiProvider, err := openai.NewProvider(config)
	if err != nil {
		return nil, err
	}

	slog.Info("Generic OpenAI-compatible provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
	)

	return &Provider{Provider: openaiProvider}, nil
}

// GetType returns "generic" as the provider type.
func (p *Provider) GetType() string {
	return "generic"
}
