package openai

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"mercator-hq/solace/pkg/providers"
)

// DefaultBaseURL is the public OpenAI API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// Provider is the OpenAI provider adapter.
// It implements the providers.Provider interface for the chat completions API.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates a new OpenAI provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "openai",
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for OpenAI",
		}
	}

	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}
	if config.IdleConnTimeout == 0 {
		config.IdleConnTimeout = 90 * time.Second
	}

	httpProvider := providers.NewHTTPProvider(config)
	httpProvider.SetHealthPath(config.BaseURL + "/models")

	slog.Info("OpenAI provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
	)

	return &Provider{HTTPProvider: httpProvider}, nil
}

// SendCompletion sends a chat completion request to OpenAI.
// The reply is the content of the first choice; a response without choices
// is a ParseError.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	url := p.GetConfig().BaseURL + "/chat/completions"
	headers := map[string]string{
		"Authorization": "Bearer " + p.GetConfig().APIKey,
		"Content-Type":  "application/json",
	}

	start := time.Now()
	var openaiResp OpenAIResponse
	if err := p.DoJSONRequest(ctx, http.MethodPost, url, transformRequest(req), &openaiResp, headers); err != nil {
		return nil, err
	}

	resp, err := transformResponse(&openaiResp)
	if err != nil {
		return nil, &providers.ParseError{
			Provider: p.GetName(),
			Cause:    err,
		}
	}
	resp.Latency = time.Since(start)

	slog.Debug("completion request succeeded",
		"provider", p.GetName(),
		"model", resp.Model,
		"tokens", resp.Usage.TotalTokens,
		"latency", resp.Latency,
	)

	return resp, nil
}

// validateRequest validates the completion request.
func validateRequest(req *providers.CompletionRequest) error {
	if req == nil {
		return &providers.ValidationError{
			Field:   "request",
			Message: "request cannot be nil",
		}
	}

	if req.Model == "" {
		return &providers.ValidationError{
			Field:   "model",
			Message: "model is required",
		}
	}

	if len(req.Messages) == 0 {
		return &providers.ValidationError{
			Field:   "messages",
			Message: "at least one message is required",
		}
	}

	return nil
}
