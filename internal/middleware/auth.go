package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/folio/folio/internal/auth"
)

// minAuthDuration is the minimum time to spend on auth to prevent timing attacks.
const minAuthDuration = 200 * time.Millisecond

// AdminAuthConfig holds configuration for the admin auth middleware.
type AdminAuthConfig struct {
	Logger   *slog.Logger
	Verifier *auth.AdminVerifier
	// MinDuration overrides minAuthDuration when positive.
	MinDuration time.Duration
}

// AdminAuth returns a middleware guarding admin routes with the admin key.
// When no key is configured every request passes.
func AdminAuth(cfg AdminAuthConfig) func(http.Handler) http.Handler {
	minDuration := cfg.MinDuration
	if minDuration <= 0 {
		minDuration = minAuthDuration
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Verifier.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			key := extractAPIKey(r)
			ok := key != "" && cfg.Verifier.Verify(key)

			// Ensure consistent timing regardless of outcome
			if elapsed := time.Since(start); elapsed < minDuration {
				time.Sleep(minDuration - elapsed)
			}

			if !ok {
				reason := "invalid_key"
				if key == "" {
					reason = "missing_key"
				}
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", clientIP(r)),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusUnauthorized, "Invalid or missing API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractAPIKey extracts the API key from the request.
// Supports both "Authorization: Bearer <key>" and "X-API-Key: <key>" headers.
func extractAPIKey(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}
