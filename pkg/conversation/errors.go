package conversation

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the presented credential does not
	// match the shared secret.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBadRequest is returned when the message is missing or empty.
	ErrBadRequest = errors.New("message field required")
)

// UpstreamError reports a failed completion call. The cause is the typed
// provider error and is reachable with errors.As.
type UpstreamError struct {
	// Provider is the name of the provider that failed
	Provider string

	// Cause is the underlying provider error
	Cause error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream provider %s failed: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error.
func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
