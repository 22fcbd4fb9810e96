package httpapi

import (
	"context"
	"net"
	"net/http"
)

// RateLimiter is the seam internal/httpapi/ratelimit.Limiter sits
// behind, narrowed to what the middleware needs.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// rateLimitMiddleware rejects a request with 429 once its client IP has
// exhausted its per-minute budget. Only mounted when Dependencies.Limiter
// is non-nil.
func rateLimitMiddleware(limiter RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			allowed, err := limiter.Allow(r.Context(), host)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				writeErrorWithStatus(w, http.StatusTooManyRequests, "İstek sınırı aşıldı, lütfen daha sonra tekrar deneyin.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
