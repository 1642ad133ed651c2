package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"jobmate/careers-service/internal/logging"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// LoggerFrom returns the request-scoped logger stored by Middleware, or
// fallback when there is none.
func LoggerFrom(ctx context.Context, fallback *logging.Logger) *logging.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*logging.Logger); ok {
		return l
	}
	return fallback
}

// Middleware assigns a request id, logs one line per request and turns
// panics into a 500 JSON error.
func Middleware(log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" || len(reqID) > 128 {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)

			reqLog := log.With("request_id", reqID)
			r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, reqLog))

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			defer func() {
				if p := recover(); p != nil {
					reqLog.Error("panic in handler", "panic", p, "path", r.URL.Path)
					if !rec.wrote {
						jsonError(rec, "internal server error", http.StatusInternalServerError)
					}
				}
				reqLog.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", rec.status,
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wrote {
		s.status = code
		s.wrote = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wrote = true
	return s.ResponseWriter.Write(b)
}

// Flush lets streaming handlers (MCP over SSE) push partial responses.
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		s.wrote = true
		f.Flush()
	}
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
