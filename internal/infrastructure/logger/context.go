package logger

import "context"

type contextKey string

// RequestIDKey carries the per-request correlation id through the request
// context so entries emitted below the HTTP layer, SQL traces in particular,
// can be tied back to the request that caused them.
const RequestIDKey contextKey = "request_id"

// ContextWithRequestID returns a context carrying the given request id.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID returns the request id stored in ctx, or "" when absent.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDKey).(string); ok {
		return v
	}
	return ""
}
