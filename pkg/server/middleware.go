package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	tderrors "github.com/kernel-tuning/tunedb/pkg/errors"
)

type contextKey string

const contextKeyRequestID contextKey = "requestID"

// Headers set on API responses.
const (
	HeaderRequestID  = "X-Request-Id"
	HeaderAPIVersion = "X-API-Version"
)

// RequestIDFromContext returns the request ID assigned by the middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}

// withMiddleware wraps an API handler with recovery, request IDs, version
// negotiation, rate limiting and access logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		r = r.WithContext(context.WithValue(r.Context(), contextKeyRequestID, requestID))
		w.Header().Set(HeaderRequestID, requestID)
		w.Header().Set(HeaderAPIVersion, negotiateAPIVersion(r))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		defer func() {
			if p := recover(); p != nil {
				slog.Error("panic in handler",
					"request_id", requestID,
					"panic", fmt.Sprint(p),
					"headers_written", rec.wroteHeader,
				)
				// a partial response cannot be replaced
				if !rec.wroteHeader {
					WriteError(rec, r, http.StatusInternalServerError, tderrors.ErrCodeInternal,
						"Internal server error", true, nil)
				}
			}
			slog.Info("request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start).String(),
			)
		}()

		if !s.limiter.Allow() {
			rec.Header().Set("Retry-After", "1")
			WriteError(rec, r, http.StatusTooManyRequests, tderrors.ErrCodeRateLimitExceeded,
				"Rate limit exceeded", true, map[string]any{
					"limit": float64(s.limiter.Limit()),
					"burst": s.limiter.Burst(),
				})
			return
		}

		next(rec, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.status = code
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(p)
}
