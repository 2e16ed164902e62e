package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	ownerKey     contextKey = "owner"
	requestIDKey contextKey = "requestID"
)

// OwnerFrom retrieves the authenticated owner id from the request context.
func OwnerFrom(r *http.Request) string {
	if v, ok := r.Context().Value(ownerKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithOwner returns a new context with the owner id.
func ContextWithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey, owner)
}

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithRequestID returns a new context with the request ID.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
