// Package providerfactory builds the configured completion provider.
package providerfactory

import (
	"context"
	"fmt"
	"log/slog"

	"mercator-hq/solace/pkg/config"
	"mercator-hq/solace/pkg/providers"
	"mercator-hq/solace/pkg/providers/generic"
	"mercator-hq/solace/pkg/providers/openai"
)

// NewProvider creates a provider instance based on config.Type.
//
// Supported provider types:
//   - "openai": OpenAI chat completions API
//   - "generic": OpenAI-compatible APIs (Ollama, LM Studio, vLLM, etc.)
//
// An empty type is treated as "openai".
func NewProvider(cfg providers.ProviderConfig) (providers.Provider, error) {
	if cfg.Type == "" {
		cfg.Type = "openai"
	}
	if cfg.Name == "" {
		cfg.Name = cfg.Type
	}

	slog.Debug("creating provider",
		"name", cfg.Name,
		"type", cfg.Type,
		"base_url", cfg.BaseURL,
	)

	var (
		provider providers.Provider
		err      error
	)

	switch cfg.Type {
	case "openai":
		provider, err = openai.NewProvider(cfg)
	case "generic":
		provider, err = generic.NewProvider(cfg)
	default:
		return nil, &providers.ConfigError{
			Provider: cfg.Name,
			Field:    "type",
			Message:  fmt.Sprintf("unsupported provider type: %q (supported: openai, generic)", cfg.Type),
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create provider %q: %w", cfg.Name, err)
	}

	return provider, nil
}

// FromConfig converts the provider section of the application
// configuration into an adapter configuration.
func FromConfig(cfg config.ProviderConfig) providers.ProviderConfig {
	return providers.ProviderConfig{
		Name:                cfg.Type,
		Type:                cfg.Type,
		BaseURL:             cfg.BaseURL,
		APIKey:              cfg.APIKey,
		Timeout:             cfg.Timeout,
		HealthCheckInterval: cfg.HealthCheckInterval,
	}
}

// NewFromConfig builds the provider described by the application
// configuration and starts its background health checker, if configured.
// The checker stops when ctx is cancelled or the provider is closed.
func NewFromConfig(ctx context.Context, cfg config.ProviderConfig) (providers.Provider, error) {
	provider, err := NewProvider(FromConfig(cfg))
	if err != nil {
		return nil, err
	}

	type healthCheckStarter interface {
		StartHealthChecker(context.Context)
	}
	if hcs, ok := provider.(healthCheckStarter); ok {
		hcs.StartHealthChecker(ctx)
	}

	return provider, nil
}
