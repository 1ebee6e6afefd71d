package providers

import (
	"errors"
	"fmt"
	"time"
)

// ProviderError represents a general provider error: a non-2xx status that
// has no more specific type, or a transport failure.
type ProviderError struct {
	// Provider is the name of the provider that returned the error
	Provider string

	// StatusCode is the HTTP status code (0 if the request never completed)
	StatusCode int

	// Message is the error message
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("provider %q error: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider %q error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// AuthError represents an authentication failure (HTTP 401 or 403).
type AuthError struct {
	// Provider is the name of the provider that rejected authentication
	Provider string

	// Message is the error message from the provider
	Message string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("provider %q authentication failed: %s", e.Provider, e.Message)
}

// RateLimitError represents a rate limit exceeded error (HTTP 429).
// It includes the retry-after duration if provided by the provider.
type RateLimitError struct {
	// Provider is the name of the provider that rate limited the request
	Provider string

	// RetryAfter is the duration the provider asked callers to wait
	RetryAfter time.Duration

	// Message is the error message from the provider
	Message string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider %q rate limit exceeded (retry after %s): %s",
			e.Provider, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("provider %q rate limit exceeded: %s", e.Provider, e.Message)
}

// TimeoutError represents a request that exceeded its deadline.
type TimeoutError struct {
	// Provider is the name of the provider where the timeout occurred
	Provider string

	// Timeout is the configured timeout duration
	Timeout time.Duration

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("provider %q request timeout after %s", e.Provider, e.Timeout)
}

// Unwrap returns the underlying error for error chain support.
func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// ParseError represents a response that could not be decoded or that
// carried no usable completion.
type ParseError struct {
	// Provider is the name of the provider that returned the malformed response
	Provider string

	// RawResponse is the raw response body that failed to parse
	RawResponse string

	// Cause is the underlying parse error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q response parse error: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ValidationError represents a request rejected before it was sent.
type ValidationError struct {
	// Field is the name of the invalid field
	Field string

	// Message describes what is invalid about the field
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Message)
}

// ConfigError represents an invalid provider configuration.
type ConfigError struct {
	// Provider is the name of the provider with invalid configuration
	Provider string

	// Field is the configuration field that is invalid
	Field string

	// Message describes the configuration error
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}

// Error type labels returned by ErrorType.
const (
	ErrorTypeAuth       = "auth"
	ErrorTypeRateLimit  = "rate_limit"
	ErrorTypeTimeout    = "timeout"
	ErrorTypeParse      = "parse"
	ErrorTypeValidation = "validation"
	ErrorTypeConfig     = "config"
	ErrorTypeStatus     = "status"
	ErrorTypeNetwork    = "network"
	ErrorTypeUnknown    = "unknown"
)

// ErrorType classifies a provider error into a short, bounded label
// suitable for metrics and audit records.
func ErrorType(err error) string {
	var (
		authErr       *AuthError
		rateErr       *RateLimitError
		timeoutErr    *TimeoutError
		parseErr      *ParseError
		validationErr *ValidationError
		configErr     *ConfigError
		providerErr   *ProviderError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &authErr):
		return ErrorTypeAuth
	case errors.As(err, &rateErr):
		return ErrorTypeRateLimit
	case errors.As(err, &timeoutErr):
		return ErrorTypeTimeout
	case errors.As(err, &parseErr):
		return ErrorTypeParse
	case errors.As(err, &validationErr):
		return ErrorTypeValidation
	case errors.As(err, &configErr):
		return ErrorTypeConfig
	case errors.As(err, &providerErr):
		if providerErr.StatusCode > 0 {
			return ErrorTypeStatus
		}
		return ErrorTypeNetwork
	default:
		return ErrorTypeUnknown
	}
}
