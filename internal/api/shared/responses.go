package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/products-api/internal/domain"
	"github.com/phrazzld/products-api/internal/platform/logger"
	"github.com/phrazzld/products-api/internal/redact"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	// Error carries Detail for client errors, and the redacted cause of
	// internal errors when debug errors are enabled.
	Error   string `json:"error,omitempty"`
	Stack   string `json:"stack,omitempty"`
	Path    string `json:"path,omitempty"`
	TraceID string `json:"traceId,omitempty"`
}

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

type responseOptions struct {
	elevateLogLevel bool
	includePath     bool
	stack           []byte
}

// WithElevatedLogLevel returns a ResponseOption that raises 4xx errors to WARN level
// instead of the default DEBUG level. Use for operational issues like repeated
// authentication failures.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// WithRequestPath adds the request path to the error body.
func WithRequestPath() ResponseOption {
	return func(opts *responseOptions) {
		opts.includePath = true
	}
}

// WithStack supplies the failure trace reported for internal errors, for
// example the stack captured when recovering from a panic. Without it no
// trace is reported.
func WithStack(stack []byte) ResponseOption {
	return func(opts *responseOptions) {
		opts.stack = stack
	}
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// RespondWithAPIError is the terminal error translator. It classifies err,
// logs it and writes the error body. Unclassified errors become internal
// errors whose details never reach the client unless debug errors are
// enabled for the request.
//
// Log level strategy:
// - 5xx errors: always logged at ERROR level
// - 4xx errors: logged at DEBUG level, or WARN with WithElevatedLogLevel
func RespondWithAPIError(w http.ResponseWriter, r *http.Request, err error, opts ...ResponseOption) {
	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	de := domain.AsError(err)
	status := de.Kind.StatusCode()
	traceID := GetTraceID(r.Context())

	body := ErrorResponse{
		Success: false,
		Message: de.PublicMessage(),
		TraceID: traceID,
	}
	if de.Kind == domain.KindValidation && len(de.Violations) > 0 {
		body.Errors = de.Violations
	}
	if de.Kind != domain.KindInternal {
		body.Error = de.Detail
	} else if DebugErrors(r.Context()) {
		body.Error = redact.Error(err)
		body.Stack = string(responseOpts.stack)
	}
	if responseOpts.includePath {
		body.Path = r.URL.Path
	}

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("error_kind", de.Kind.String()),
		slog.String("user_message", body.Message),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}
	if len(body.Errors) > 0 {
		logAttrs = append(logAttrs, slog.Any("violations", body.Errors))
	}
	if responseOpts.stack != nil {
		logAttrs = append(logAttrs, slog.String("stack", string(responseOpts.stack)))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	} else if responseOpts.elevateLogLevel {
		logLevel = slog.LevelWarn
	}

	log := logger.FromContextOrDefault(r.Context(), slog.Default())
	log.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, body)
}
