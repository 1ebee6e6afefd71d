package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mercator-hq/solace/pkg/providers"
	"mercator-hq/solace/pkg/safety"
)

// DefaultMaxTurns is the transcript cap used when Options.MaxTurns is zero.
const DefaultMaxTurns = 20

// Authorizer decides whether a presented credential is the shared secret.
type Authorizer interface {
	Authorize(credential string) bool
}

// Options configures a Service.
type Options struct {
	// Provider answers completion requests (required)
	Provider providers.Provider

	// Authorizer checks credentials (required)
	Authorizer Authorizer

	// Model is sent with every completion request (required)
	Model string

	// SystemPrompt is the persona instruction in the leading system turn
	SystemPrompt string

	// MaxTurns caps the transcript length after every send
	MaxTurns int

	// PreserveSystemTurn keeps the system turn when truncating
	PreserveSystemTurn bool

	// Screen optionally answers crisis messages without calling the provider
	Screen *safety.Screen

	// Observers receive every completed exchange
	Observers []Observer

	Logger *slog.Logger
}

// Service owns one shared transcript and forwards messages to the provider.
//
// A single mutex is held for the whole of SendMessage, including the
// provider call, and for ClearHistory. Concurrent sends therefore run one at
// a time: each provider call sees a consistent transcript and replies are
// appended in the order requests acquired the lock.
type Service struct {
	provider   providers.Provider
	authorizer Authorizer
	model      string
	maxTurns   int
	screen     *safety.Screen
	observers  []Observer
	logger     *slog.Logger

	mu         sync.Mutex
	transcript *Transcript
}

// NewService creates a service with a transcript holding only the system turn.
func NewService(opts Options) (*Service, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if opts.Authorizer == nil {
		return nil, fmt.Errorf("authorizer is required")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	maxTurns := opts.MaxTurns
	if maxTurns == 0 {
		maxTurns = DefaultMaxTurns
	}
	if maxTurns < 1 || (opts.PreserveSystemTurn && maxTurns < 2) {
		return nil, fmt.Errorf("invalid max turns %d", maxTurns)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		provider:   opts.Provider,
		authorizer: opts.Authorizer,
		model:      opts.Model,
		maxTurns:   maxTurns,
		screen:     opts.Screen,
		observers:  opts.Observers,
		logger:     logger,
		transcript: newTranscript(opts.SystemPrompt, maxTurns, opts.PreserveSystemTurn),
	}, nil
}

// Authorize reports whether credential is the shared secret.
func (s *Service) Authorize(credential string) bool {
	return s.authorizer.Authorize(credential)
}

// SendMessage appends message to the transcript, asks the provider for a
// reply with the whole transcript as context and appends the reply.
//
// It returns ErrUnauthorized or ErrBadRequest without touching the
// transcript. A provider failure returns *UpstreamError; the user turn stays
// in the transcript. The transcript is capped at the configured length after
// every send that got past validation, successful or not.
func (s *Service) SendMessage(ctx context.Context, credential, message string) (string, error) {
	start := time.Now()
	ex := &Exchange{
		Operation:     OperationSend,
		Provider:      s.provider.GetName(),
		Model:         s.model,
		MessageLength: len(message),
	}
	defer s.notify(ctx, ex, start)

	if !s.Authorize(credential) {
		ex.Status = StatusUnauthorized
		return "", ErrUnauthorized
	}
	if message == "" {
		ex.Status = StatusBadRequest
		return "", ErrBadRequest
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcript.Append(Turn{Role: providers.RoleUser, Content: message})

	if s.screen.Check(message) {
		s.logger.WarnContext(ctx, "crisis keywords matched, sending crisis resources",
			"message_length", len(message))
		s.transcript.Append(Turn{Role: providers.RoleAssistant, Content: safety.CrisisReply})
		ex.Status = StatusCrisis
		ex.ReplyLength = len(safety.CrisisReply)
		s.finish(ex)
		return safety.CrisisReply, nil
	}

	resp, err := s.provider.SendCompletion(ctx, &providers.CompletionRequest{
		Model:    s.model,
		Messages: s.transcript.Messages(),
	})
	if err != nil {
		ex.Status = StatusUpstreamError
		ex.ErrorType = providers.ErrorType(err)
		s.finish(ex)
		s.logger.ErrorContext(ctx, "completion failed",
			"provider", ex.Provider,
			"model", s.model,
			"error_type", ex.ErrorType,
			"error", err)
		return "", &UpstreamError{Provider: ex.Provider, Cause: err}
	}

	s.transcript.Append(Turn{Role: providers.RoleAssistant, Content: resp.Content})
	ex.Status = StatusSuccess
	ex.ReplyLength = len(resp.Content)
	ex.Usage = resp.Usage
	ex.ProviderLatency = resp.Latency
	s.finish(ex)

	return resp.Content, nil
}

// ClearHistory resets the transcript to the single system turn.
func (s *Service) ClearHistory(ctx context.Context, credential string) error {
	start := time.Now()
	ex := &Exchange{
		Operation: OperationClear,
		Provider:  s.provider.GetName(),
		Model:     s.model,
	}
	defer s.notify(ctx, ex, start)

	if !s.Authorize(credential) {
		ex.Status = StatusUnauthorized
		return ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcript.Reset()
	ex.Status = StatusSuccess
	ex.TranscriptTurns = s.transcript.Len()
	return nil
}

// Snapshot returns a copy of the transcript.
func (s *Service) Snapshot() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Turns()
}

// Stats summarizes the transcript. It waits for an in-flight send.
func (s *Service) Stats() Stats {
	st := Analyze(s.Snapshot())
	st.MaxTurns = s.maxTurns
	return st
}

// Model returns the model identifier sent to the provider.
func (s *Service) Model() string {
	return s.model
}

// Provider returns the completion provider.
func (s *Service) Provider() providers.Provider {
	return s.provider
}

// finish applies the length cap and records the resulting size.
// The caller holds s.mu.
func (s *Service) finish(ex *Exchange) {
	ex.Truncated = s.transcript.Truncate()
	ex.TranscriptTurns = s.transcript.Len()
	if ex.Truncated > 0 {
		s.logger.Debug("transcript truncated", "dropped", ex.Truncated, "turns", ex.TranscriptTurns)
	}
}

func (s *Service) notify(ctx context.Context, ex *Exchange, start time.Time) {
	ex.Duration = time.Since(start)
	ex.Timestamp = start
	for _, o := range s.observers {
		o.ObserveExchange(ctx, ex)
	}
}

// IsUpstream reports whether err is a provider failure.
func IsUpstream(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream)
}
