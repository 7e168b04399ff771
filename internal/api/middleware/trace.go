package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/nutri-api/internal/api/shared"
	"github.com/phrazzld/nutri-api/internal/platform/logger"
)

// Trace returns middleware that gives every request a trace ID and a
// context logger tagged with it. It should run early in the chain so later
// handlers and flows log with the same trace_id.
func Trace(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			log := logger.FromContextOrDefault(ctx, base).With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			w.Header().Set(shared.TraceIDHeader, traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
