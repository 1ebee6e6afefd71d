package middleware

import "net/http"

// Chain applies middleware so the first one listed is the outermost.
//
//	handler := Chain(mux, RecoveryMiddleware, RequestIDMiddleware)
func Chain(h http.Handler, mw ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
