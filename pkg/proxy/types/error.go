package types

import "net/http"

// ErrorResponse is the body of every failed request. The message is static;
// internal detail goes only to the server log.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Client-facing error messages.
const (
	MessageUnauthorized     = "Unauthorized"
	MessageBadRequest       = "Request body must include a 'message' field."
	MessageUpstreamError    = "Something went wrong. Please try again."
	MessageMethodNotAllowed = "Method not allowed"
	MessageNotFound         = "Not found"
)

// APIError pairs an HTTP status code with its response body.
type APIError struct {
	StatusCode int
	Body       ErrorResponse
}

// NewAPIError creates an APIError.
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Body:       ErrorResponse{Error: message},
	}
}

// NewUnauthorizedError creates a 401 error.
func NewUnauthorizedError() *APIError {
	return NewAPIError(http.StatusUnauthorized, MessageUnauthorized)
}

// NewBadRequestError creates a 400 error.
func NewBadRequestError() *APIError {
	return NewAPIError(http.StatusBadRequest, MessageBadRequest)
}

// NewServerError creates a 500 error.
func NewServerError() *APIError {
	return NewAPIError(http.StatusInternalServerError, MessageUpstreamError)
}

// NewMethodNotAllowedError creates a 405 error.
func NewMethodNotAllowedError() *APIError {
	return NewAPIError(http.StatusMethodNotAllowed, MessageMethodNotAllowed)
}
