package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"mercator-hq/solace/pkg/proxy/types"
)

const (
	// DefaultMaxBodyBytes caps request bodies when no limit is configured (1MB).
	DefaultMaxBodyBytes = 1 << 20

	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"
)

// ErrBodyTooLarge is returned when a request body exceeds the size limit.
var ErrBodyTooLarge = errors.New("request body too large")

// ParseChatRequest decodes a POST /chat body. The body is read up to
// maxBytes (DefaultMaxBodyBytes when zero or negative).
//
// A body that is empty, not JSON or lacks a string "message" field returns
// a RequestError. Callers that must check credentials first can ignore the
// error and treat the message as empty.
func ParseChatRequest(r *http.Request, maxBytes int64) (*types.ChatRequest, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	if r.Body == nil {
		return &types.ChatRequest{}, &RequestError{Reason: "missing body"}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return &types.ChatRequest{}, &RequestError{Reason: "failed to read body", Cause: err}
	}
	if int64(len(body)) > maxBytes {
		return &types.ChatRequest{}, &RequestError{
			Reason: fmt.Sprintf("body exceeds %d bytes", maxBytes),
			Cause:  ErrBodyTooLarge,
		}
	}

	var req types.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return &types.ChatRequest{}, &RequestError{Reason: "invalid JSON", Cause: err}
	}
	if req.Message == "" {
		return &req, &RequestError{Reason: "message field missing or empty"}
	}

	return &req, nil
}

// RequestError represents a request body that could not be used.
type RequestError struct {
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid request: %s: %v", e.Reason, e.Cause)
	}
	return "invalid request: " + e.Reason
}

// Unwrap returns the underlying cause error.
func (e *RequestError) Unwrap() error {
	return e.Cause
}
