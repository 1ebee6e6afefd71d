// Package types defines the JSON bodies of the Solace HTTP API.
//
// Request types:
//   - ChatRequest: body of POST /chat
//
// Response types:
//   - ChatResponse, ClearResponse: success bodies
//   - HealthResponse, ReadyResponse, VersionResponse: operational endpoints
//   - ErrorResponse: {"error": "..."} for every failure
//
// Error bodies carry fixed messages so no provider or internal detail
// reaches the client.
package types
