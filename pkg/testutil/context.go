package testutil

import (
	"context"
	"net/http"

	"handover/internal/platform/middleware"
)

// WithClientID adds an authenticated client ID to the request context.
// This simulates what the client credentials middleware would do.
func WithClientID(req *http.Request, clientID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyClientID, clientID)
	return req.WithContext(ctx)
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyRequestID, requestID)
	return req.WithContext(ctx)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
