package httpx

import (
	"log/slog"
	"net/http"
	"time"
)

// responseMeta wraps the writer to record what was actually sent.
type responseMeta struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (m *responseMeta) WriteHeader(code int) {
	if m.status == 0 {
		m.status = code
	}
	m.ResponseWriter.WriteHeader(code)
}

func (m *responseMeta) Write(p []byte) (int, error) {
	n, err := m.ResponseWriter.Write(p)
	m.bytes += int64(n)
	return n, err
}

func (m *responseMeta) Status() int {
	if m.status == 0 {
		return http.StatusOK
	}
	return m.status
}

// WithAccessLog emits one log line per request. Liveness and readiness
// probes are not logged; they fire every few seconds and drown the signal.
func WithAccessLog(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" || r.URL.Path == "/readyz" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			meta := &responseMeta{ResponseWriter: w}
			next.ServeHTTP(meta, r)

			logger.Info("http request",
				"request_id", RequestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", meta.Status(),
				"bytes", meta.bytes,
				"remote", clientKey(r),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
