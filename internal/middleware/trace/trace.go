// Package trace tags each request with an ID and logs its outcome.
package trace

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	applog "my/internal/log"
)

// RequestIDHeader carries the request ID back to the client.
const RequestIDHeader = "X-Request-ID"

// Middleware handles request tracing and logging
type Middleware struct {
	logger    *applog.Logger
	extractIP func(*http.Request) string
	served    atomic.Int64
}

// NewMiddleware creates a trace middleware that logs through logger.
// extractIP may be nil.
func NewMiddleware(logger *applog.Logger, extractIP func(*http.Request) string) *Middleware {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Middleware{logger: logger.WithComponent(applog.ComponentHTTP), extractIP: extractIP}
}

// Middleware returns HTTP middleware for request tracing
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		requestID := GenerateRequestID()
		w.Header().Set(RequestIDHeader, requestID)

		logger := m.logger.With(applog.NewFields().WithRequestID(requestID).ToSlice()...)
		ctx := applog.NewContext(r.Context(), logger)
		r = r.WithContext(ctx)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		m.served.Add(1)

		duration := time.Since(start)

		level := slog.LevelInfo
		if rw.statusCode >= 400 && rw.statusCode < 500 {
			level = slog.LevelWarn
		} else if rw.statusCode >= 500 {
			level = slog.LevelError
		}

		fields := applog.NewFields().
			WithComponent(logger.Component()).
			WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).
			WithHTTPResponse(rw.statusCode, duration.Milliseconds(), rw.statusCode < 400)
		fields[applog.FieldClientIP] = clientIP
		logger.Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
	})
}

// Served returns how many requests have completed.
func (m *Middleware) Served() int64 {
	return m.served.Load()
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	return "req_" + uuid.NewString()
}
