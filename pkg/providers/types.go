package providers

import "time"

// Message is a single turn sent to a provider.
type Message struct {
	// Role identifies the author: system, user or assistant
	Role string `json:"role"`

	// Content is the message text
	Content string `json:"content"`
}

// TokenUsage tracks token consumption for a request.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionRequest represents a provider-agnostic completion request.
type CompletionRequest struct {
	// Model is the model identifier (e.g., "gpt-4o")
	Model string `json:"model"`

	// Messages is the ordered conversation, system turn first when present
	Messages []Message `json:"messages"`

	// Temperature controls randomness; zero leaves the provider default
	Temperature float64 `json:"temperature,omitempty"`

	// MaxTokens caps the completion length; zero leaves the provider default
	MaxTokens int `json:"max_tokens,omitempty"`

	// User is an optional end-user identifier for abuse monitoring
	User string `json:"user,omitempty"`
}

// CompletionResponse represents a provider-agnostic completion response.
type CompletionResponse struct {
	// ID is the provider's response identifier
	ID string `json:"id"`

	// Model is the model that generated the response
	Model string `json:"model"`

	// Content is the generated text of the first choice
	Content string `json:"content"`

	// FinishReason indicates why generation stopped (stop, length, content_filter)
	FinishReason string `json:"finish_reason"`

	// Usage contains token consumption information
	Usage TokenUsage `json:"usage"`

	// Created is the Unix timestamp reported by the provider
	Created int64 `json:"created"`

	// Latency is the wall time of the provider round trip
	Latency time.Duration `json:"-"`
}

// ProviderHealth tracks the health status of a provider.
type ProviderHealth struct {
	// IsHealthy indicates whether the provider is currently healthy
	IsHealthy bool

	// LastCheck is the timestamp of the last request or health check
	LastCheck time.Time

	// LastError is the most recent error encountered (nil if healthy)
	LastError error

	// ConsecutiveFailures counts sequential failures
	ConsecutiveFailures int

	// LastSuccessfulRequest is the timestamp of the last successful request
	LastSuccessfulRequest time.Time

	// TotalRequests is the total number of requests sent to this provider
	TotalRequests int64

	// FailedRequests is the total number of failed requests
	FailedRequests int64
}

// ProviderConfig contains configuration for a single provider instance.
// It is built from config.ProviderConfig by the provider factory.
type ProviderConfig struct {
	// Name is the provider identifier used in logs and metrics
	Name string

	// Type is the provider type (openai, generic)
	Type string

	// BaseURL is the API endpoint base URL
	BaseURL string

	// APIKey is the authentication key
	APIKey string

	// Timeout bounds one request, including reading the body
	Timeout time.Duration

	// HealthCheckInterval enables periodic background health checks when > 0
	HealthCheckInterval time.Duration

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool
	IdleConnTimeout time.Duration
}

// Message role constants
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Finish reason constants
const (
	FinishReasonStop          = "stop"
	FinishReasonLength        = "length"
	FinishReasonContentFilter = "content_filter"
)

// unhealthyThreshold is the number of consecutive failures after which a
// provider is reported unhealthy.
const unhealthyThreshold = 3
