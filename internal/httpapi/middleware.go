package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"

	"github.com/amr-platform/annotation-core/internal/config"
	"github.com/amr-platform/annotation-core/pkg/account"
	"github.com/amr-platform/annotation-core/pkg/domain"
)

// corsMiddleware wraps go-chi/cors behind the platform's own CORSConfig,
// the same pattern the rest of the ambient stack uses to keep a
// third-party library's options out of call sites.
func corsMiddleware(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           300,
	})
}

// authMiddleware verifies the bearer token and attaches its claims to
// the request context. A missing or invalid token fails the request
// here so downstream handlers can assume claimsFromContext is non-nil.
func authMiddleware(verifier account.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if header == "" {
				writeError(w, domain.ErrAuthMissing)
				return
			}
			if !ok {
				writeError(w, domain.ErrAuthInvalid)
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil {
				writeError(w, domain.ErrAuthInvalid)
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// rejectPending enforces spec.md §6's auth rule: a pending user is
// rejected on every operation except GET /auth/me, which this
// middleware is never mounted in front of.
func rejectPending() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFromContext(r.Context())
			if claims != nil && claims.Role == domain.RolePending {
				writeError(w, domain.ErrPendingApproval)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
