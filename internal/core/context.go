package core

import "context"

// Context key for passing the request identifier to the transport layer.
type contextKey string

const requestIDContextKey contextKey = "requestID"

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDContextKey).(string); ok {
		return id
	}
	return ""
}
