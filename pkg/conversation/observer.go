package conversation

import (
	"context"
	"time"

	"mercator-hq/solace/pkg/providers"
)

// Operations reported in an Exchange.
const (
	OperationSend  = "send"
	OperationClear = "clear"
)

// Exchange statuses.
const (
	StatusSuccess       = "success"
	StatusUnauthorized  = "unauthorized"
	StatusBadRequest    = "bad_request"
	StatusUpstreamError = "upstream_error"
	StatusCrisis        = "crisis"
)

// Exchange describes one completed operation. It carries sizes and counts
// only; message and reply text are never included.
type Exchange struct {
	Operation string
	Status    string

	Provider string
	Model    string

	MessageLength int
	ReplyLength   int

	// TranscriptTurns is the transcript length after the operation
	TranscriptTurns int

	// Truncated is the number of turns dropped by the length cap
	Truncated int

	Usage           providers.TokenUsage
	ProviderLatency time.Duration

	// ErrorType classifies provider failures (see providers.ErrorType)
	ErrorType string

	Duration  time.Duration
	Timestamp time.Time
}

// Observer receives every completed exchange. Implementations must not
// block; they are called on the request goroutine after the transcript lock
// is released.
type Observer interface {
	ObserveExchange(ctx context.Context, ex *Exchange)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, ex *Exchange)

// ObserveExchange calls f.
func (f ObserverFunc) ObserveExchange(ctx context.Context, ex *Exchange) {
	f(ctx, ex)
}
