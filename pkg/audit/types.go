package audit

import (
	"context"
	"time"
)

// Record is the audit trail entry for one conversation operation. It holds
// sizes, counts and outcome only. Message and reply text are never stored.
type Record struct {
	// Identity
	ID        string `json:"id"`         // UUID v4
	RequestID string `json:"request_id"` // From the request ID middleware

	Timestamp time.Time `json:"timestamp"` // When the operation started

	Operation string `json:"operation"` // send, clear
	Status    string `json:"status"`    // success, unauthorized, bad_request, upstream_error, crisis

	Provider string `json:"provider"`
	Model    string `json:"model"`

	// Sizes in bytes
	MessageLength int `json:"message_length"`
	ReplyLength   int `json:"reply_length"`

	// Transcript state after the operation
	TranscriptTurns int `json:"transcript_turns"`
	Truncated       int `json:"truncated"`

	// Usage reported by the provider
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	ProviderLatency time.Duration `json:"provider_latency"`
	Duration        time.Duration `json:"duration"`

	ErrorType string `json:"error_type,omitempty"`
}

// Query defines filter parameters for audit records. Zero values match
// everything.
type Query struct {
	// Time range, both inclusive
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Operation string `json:"operation,omitempty"`
	Status    string `json:"status,omitempty"`

	// Pagination; a zero Limit returns every match
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// Ascending returns oldest records first; the default is newest first
	Ascending bool `json:"ascending,omitempty"`
}

// Storage defines the interface for audit storage backends.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, record *Record) error

	// Query returns records matching the filters, ordered by timestamp.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the filters and returns how many
	// were removed. Limit, Offset and order are ignored.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Ping reports whether the backend is usable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the backend.
	Close() error
}
