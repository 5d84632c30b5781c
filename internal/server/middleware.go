package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/taxotree/pkg/observability"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = 0

// RequestID returns the id assigned to the request, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestID keeps a client-supplied X-Request-ID that parses as a UUID and
// assigns a fresh one otherwise.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// observe reports each request to the server hooks under its route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := s.routePattern(r)
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, route)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			hooks.OnResponse(r.Context(), r.Method, route, status(ww), time.Since(start))
		}()
		next.ServeHTTP(ww, r)
	})
}

// routePattern matches r against the router without serving it, so that
// unknown paths share one label.
func (s *Server) routePattern(r *http.Request) string {
	rctx := chi.NewRouteContext()
	if !s.router.Match(rctx, r.Method, r.URL.Path) {
		return "unmatched"
	}
	return rctx.RoutePattern()
}

// logFormatter feeds chi's RequestLogger and Recoverer into the server
// logger.
type logFormatter struct {
	logger *log.Logger
}

func (f logFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return logEntry{
		logger: f.logger.With(
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestID(r.Context())),
	}
}

type logEntry struct {
	logger *log.Logger
}

func (e logEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ any) {
	if status == 0 {
		status = http.StatusOK
	}
	e.logger.Debug("request", "status", status, "bytes", bytes, "duration", elapsed)
}

func (e logEntry) Panic(v any, stack []byte) {
	e.logger.Error("panic in handler", "panic", v, "stack", string(stack))
}

// bodyLimit rejects request bodies larger than maxBytes.
func bodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// timeout bounds the request context. Handlers see the deadline through
// r.Context() and the pipeline stops at the next cancellation check.
func timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// status returns the written status, 200 when the handler wrote nothing
// explicit.
func status(ww middleware.WrapResponseWriter) int {
	if code := ww.Status(); code != 0 {
		return code
	}
	return http.StatusOK
}
