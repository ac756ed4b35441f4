package middleware

import "context"

// Context keys for request-scoped values set by middleware.
type contextKeyRequestID struct{}
type contextKeyClientID struct{}

var (
	ContextKeyRequestID = contextKeyRequestID{}
	ContextKeyClientID  = contextKeyClientID{}
)

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(ContextKeyRequestID).(string)
	if !ok {
		return ""
	}
	return requestID
}

// GetClientID retrieves the authenticated client ID from the context.
func GetClientID(ctx context.Context) string {
	clientID, ok := ctx.Value(ContextKeyClientID).(string)
	if !ok {
		return ""
	}
	return clientID
}
