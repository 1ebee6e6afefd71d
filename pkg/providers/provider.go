package providers

import "context"

// Provider is the interface every completion provider adapter implements.
// It hides the wire format of a specific vendor (OpenAI, OpenAI-compatible
// local servers) behind provider-agnostic request and response types.
//
// All methods that perform I/O accept a context.Context. Implementations
// return as soon as the context is cancelled.
//
// Example usage:
//
//	provider, err := providerfactory.NewProvider(config)
//	if err != nil {
//	    return err
//	}
//
//	resp, err := provider.SendCompletion(ctx, &CompletionRequest{
//	    Model:    "gpt-4o",
//	    Messages: []Message{{Role: RoleUser, Content: "Hello!"}},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.Content)
type Provider interface {
	// SendCompletion sends the full message list to the provider and returns
	// the first completion choice. A request is attempted exactly once.
	SendCompletion(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// HealthCheck performs a lightweight request to verify the provider is
	// reachable and accepts the configured credentials.
	HealthCheck(ctx context.Context) error

	// GetName returns the provider's configured name.
	GetName() string

	// GetType returns the provider's type ("openai", "generic").
	GetType() string

	// GetConfig returns the provider's configuration.
	GetConfig() ProviderConfig

	// IsHealthy reports whether recent requests have been succeeding.
	IsHealthy() bool

	// GetHealth returns detailed health information.
	GetHealth() ProviderHealth

	// Close releases idle connections and stops background health checks.
	Close() error
}
