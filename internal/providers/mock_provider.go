package providers

import (
	"context"
	"fmt"
	"sync"

	"mercator-hq/solace/pkg/providers"
)

// MockProvider is an in-process implementation of providers.Provider for
// tests that should not touch the network. It records every request and
// answers with a scripted reply or error.
type MockProvider struct {
	mu       sync.Mutex
	name     string
	healthy  bool
	reply    string
	err      error
	requests []*providers.CompletionRequest

	// Gate, when set, blocks SendCompletion until a value is received or
	// the request context ends.
	Gate chan struct{}

	// OnSend, when set, produces the reply from the request.
	OnSend func(req *providers.CompletionRequest) (string, error)
}

// NewMockProvider creates a healthy mock provider that replies with reply.
func NewMockProvider(name, reply string) *MockProvider {
	return &MockProvider{
		name:    name,
		healthy: true,
		reply:   reply,
	}
}

// SetReply changes the scripted reply.
func (m *MockProvider) SetReply(reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reply = reply
}

// SetError makes every following SendCompletion fail with err.
func (m *MockProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetHealthy sets the health status of the mock provider.
func (m *MockProvider) SetHealthy(healthy bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthy = healthy
}

// Requests returns copies of every request received so far.
func (m *MockProvider) Requests() []*providers.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*providers.CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns the number of SendCompletion calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// SendCompletion records the request and returns the scripted result.
func (m *MockProvider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	snapshot := &providers.CompletionRequest{
		Model:    req.Model,
		Messages: append([]providers.Message(nil), req.Messages...),
	}

	m.mu.Lock()
	m.requests = append(m.requests, snapshot)
	gate, onSend, reply, err := m.Gate, m.OnSend, m.reply, m.err
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, &providers.ProviderError{Provider: m.name, Message: "request cancelled", Cause: ctx.Err()}
		}
	}

	if onSend != nil {
		reply, err = onSend(snapshot)
	}
	if err != nil {
		return nil, err
	}

	return &providers.CompletionResponse{
		ID:           fmt.Sprintf("mock-%d", len(snapshot.Messages)),
		Model:        req.Model,
		Content:      reply,
		FinishReason: providers.FinishReasonStop,
		Usage: providers.TokenUsage{
			PromptTokens:     len(snapshot.Messages),
			CompletionTokens: 1,
			TotalTokens:      len(snapshot.Messages) + 1,
		},
	}, nil
}

// HealthCheck reports the scripted health.
func (m *MockProvider) HealthCheck(ctx context.Context) error {
	if !m.IsHealthy() {
		return fmt.Errorf("provider %s is unhealthy", m.name)
	}
	return nil
}

// GetName returns the provider name.
func (m *MockProvider) GetName() string {
	return m.name
}

// GetType returns the provider type.
func (m *MockProvider) GetType() string {
	return "mock"
}

// GetConfig returns the provider configuration.
func (m *MockProvider) GetConfig() providers.ProviderConfig {
	return providers.ProviderConfig{Name: m.name, Type: "mock"}
}

// IsHealthy returns the current health status.
func (m *MockProvider) IsHealthy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.healthy
}

// GetHealth returns detailed health information.
func (m *MockProvider) GetHealth() providers.ProviderHealth {
	return providers.ProviderHealth{IsHealthy: m.IsHealthy()}
}

// Close closes the provider.
func (m *MockProvider) Close() error {
	return nil
}
