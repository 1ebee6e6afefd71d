package middleware

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// StartTimeKey stores the request start time for latency calculation.
// The request ID lives in the logging package so log records pick it up.
const StartTimeKey contextKey = "start_time"
