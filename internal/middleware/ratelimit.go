package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"callcast/internal/config"
	apperrors "callcast/internal/errors"
)

// RateLimit bounds how often the wrapped handler may be hit. Build triggers
// are expensive, so the limiter is process-wide, not per-client.
func RateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Enabled && !limiter.Allow() {
				apperrors.WriteError(w, r, apperrors.ErrRateLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
