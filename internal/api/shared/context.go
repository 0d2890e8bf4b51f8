package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/products-api/internal/domain"
)

// ContextKey is the type of request-scoped values set by the middleware.
type ContextKey string

// Context keys for request-scoped values.
const (
	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// APIKeyContextKey holds the authenticated domain.APIKey
	APIKeyContextKey ContextKey = "apiKey"

	// BodyContextKey holds the decoded JSON request body
	BodyContextKey ContextKey = "body"

	// DebugErrorsKey marks requests whose internal errors may be described to the client
	DebugErrorsKey ContextKey = "debugErrors"
)

// SetTraceID adds a fresh trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context, or "".
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// generateTraceID returns 32 hex characters from a random UUID.
func generateTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// WithAPIKey stores the authenticated key in the context.
func WithAPIKey(ctx context.Context, key domain.APIKey) context.Context {
	return context.WithValue(ctx, APIKeyContextKey, key)
}

// APIKeyFromContext returns the authenticated key, if any.
func APIKeyFromContext(ctx context.Context) (domain.APIKey, bool) {
	key, ok := ctx.Value(APIKeyContextKey).(domain.APIKey)
	return key, ok
}

// WithBody stores the decoded request body in the context.
func WithBody(ctx context.Context, body map[string]any) context.Context {
	return context.WithValue(ctx, BodyContextKey, body)
}

// BodyFromContext returns the decoded request body. Requests that never went
// through body decoding yield an empty map.
func BodyFromContext(ctx context.Context) map[string]any {
	body, ok := ctx.Value(BodyContextKey).(map[string]any)
	if !ok || body == nil {
		return map[string]any{}
	}
	return body
}

// WithDebugErrors controls whether internal failures are described in responses.
func WithDebugErrors(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, DebugErrorsKey, enabled)
}

// DebugErrors reports whether internal failures may be described to the client.
// It defaults to false.
func DebugErrors(ctx context.Context) bool {
	enabled, _ := ctx.Value(DebugErrorsKey).(bool)
	return enabled
}
