package httpx

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bookora/bookora/internal/config"
)

// CORSPolicy controls which browser origins may call the API. An empty
// AllowedOrigins list disables CORS handling entirely.
type CORSPolicy struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// CORSPolicyFromEnv reads the CORS_* variables. CORS_ALLOWED_ORIGINS is a
// comma-separated list and may contain "*"; leaving it empty keeps the
// middleware a no-op, which is the right default for server-to-server use.
func CORSPolicyFromEnv() CORSPolicy {
	return CORSPolicy{
		AllowedOrigins:   splitList(config.String("CORS_ALLOWED_ORIGINS", "")),
		AllowedMethods:   splitList(config.String("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS")),
		AllowedHeaders:   splitList(config.String("CORS_ALLOWED_HEADERS", "Authorization,Content-Type,X-Request-Id")),
		AllowCredentials: config.String("CORS_ALLOW_CREDENTIALS", "false") == "true",
		MaxAge:           config.Duration("CORS_MAX_AGE", 10*time.Minute),
	}
}

func WithCORS(policy CORSPolicy) Middleware {
	origins := trimNonEmpty(policy.AllowedOrigins)
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	methods := strings.Join(trimNonEmpty(policy.AllowedMethods), ", ")
	headers := strings.Join(trimNonEmpty(policy.AllowedHeaders), ", ")
	maxAge := strconv.Itoa(int(policy.MaxAge.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allow := resolveOrigin(origin, origins, policy.AllowCredentials)
			if allow == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allow)
			if policy.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if methods != "" {
				h.Set("Access-Control-Allow-Methods", methods)
			}
			if headers != "" {
				h.Set("Access-Control-Allow-Headers", headers)
			}
			if policy.MaxAge > 0 {
				h.Set("Access-Control-Max-Age", maxAge)
			}
			h.Add("Vary", "Origin")
			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")

			if isPreflight(r) {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}

// resolveOrigin returns the Allow-Origin value to emit, or "" when the
// request origin is not allowed. A wildcard entry echoes the caller's origin
// when credentials are enabled, since "*" and credentials cannot combine.
func resolveOrigin(origin string, allowed []string, credentials bool) string {
	if origin == "" {
		return ""
	}
	for _, a := range allowed {
		if a == "*" {
			if credentials {
				return origin
			}
			return "*"
		}
		if strings.EqualFold(a, origin) {
			return origin
		}
	}
	return ""
}

func splitList(raw string) []string {
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
