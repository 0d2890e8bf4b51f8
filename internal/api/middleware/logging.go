package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/products-api/internal/platform/logger"
)

// RequestLogger records one line per request once the response is written.
// It only observes: it never changes the response or stops the chain.
// With detailed set, a debug record describing the incoming request is
// written as well.
func RequestLogger(detailed bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromContextOrDefault(r.Context(), slog.Default())
			start := time.Now()

			if detailed {
				log.Debug("request received",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("host", r.Host),
					slog.String("remote_addr", r.RemoteAddr),
					slog.String("user_agent", r.UserAgent()),
					slog.Any("query", r.URL.Query()),
					slog.Int64("content_length", r.ContentLength))
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				log.Info("http_request",
					slog.String("method", r.Method),
					slog.String("path", r.URL.RequestURI()),
					slog.Int("status", status),
					slog.Int("bytes", ww.BytesWritten()),
					slog.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000.0),
					slog.String("remote_addr", r.RemoteAddr),
					slog.String("user_agent", r.UserAgent()))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
