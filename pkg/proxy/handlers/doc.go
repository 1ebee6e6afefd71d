// Package handlers implements the Solace HTTP endpoints.
//
//	POST /chat     send a message, get the reply
//	POST /clear    reset the shared transcript
//	GET  /health   liveness
//	GET  /ready    readiness from registered health checks
//	GET  /version  build information
//
// The shared secret is read from the "devkey" header (configurable) and
// checked by the conversation service. All failures use the JSON body
// {"error": "..."} with a fixed message; see package proxy for the mapping.
//
// Example:
//
//	curl -X POST localhost:3000/chat \
//	    -H 'devkey: abc123' \
//	    -d '{"message":"I feel low today"}'
//	{"reply":"I'm here for you."}
package handlers
