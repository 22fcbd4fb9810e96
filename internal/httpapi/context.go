package httpapi

import (
	"context"

	"github.com/amr-platform/annotation-core/pkg/account"
)

type claimsKey struct{}

func withClaims(ctx context.Context, claims *account.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// claimsFromContext returns the verified bearer claims attached by
// authMiddleware. Handlers reachable only behind that middleware can
// assume a non-nil result.
func claimsFromContext(ctx context.Context) *account.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*account.Claims)
	return claims
}
