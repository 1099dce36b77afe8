package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kislikjeka/cointrack/pkg/logger"
)

// errorBody tees the body of 4xx/5xx responses so the access line can carry
// the message the client saw.
type errorBody struct {
	chimiddleware.WrapResponseWriter
	buf bytes.Buffer
}

func (e *errorBody) Write(b []byte) (int, error) {
	if e.Status() >= http.StatusBadRequest {
		e.buf.Write(b)
	}
	return e.WrapResponseWriter.Write(b)
}

func (e *errorBody) message() string {
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(e.buf.Bytes(), &body) != nil {
		return ""
	}
	return body.Error
}

// accessLevel picks the level of an access line. Probes and scrapes are
// logged at DEBUG so they do not drown the request log.
func accessLevel(r *http.Request, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/metrics":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Logger writes one access line per request and puts the chi request id
// into the context for the loggers further down.
func Logger(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ew := &errorBody{WrapResponseWriter: chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)}

			reqID := chimiddleware.GetReqID(r.Context())
			if reqID != "" {
				r = r.WithContext(context.WithValue(r.Context(), logger.RequestIDKey, reqID))
			}

			defer func() {
				status := ew.Status()
				attrs := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"route", routePattern(r),
					"status", status,
					"bytes", ew.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"remote_addr", r.RemoteAddr,
				}
				if reqID != "" {
					attrs = append(attrs, "request_id", reqID)
				}
				if msg := ew.message(); msg != "" {
					attrs = append(attrs, "error", msg)
				}

				log.Log(r.Context(), accessLevel(r, status), "HTTP request", attrs...)
			}()

			next.ServeHTTP(ew, r)
		})
	}
}

// routePattern returns the matched chi pattern, e.g. /api/v1/transactions/{id}
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
