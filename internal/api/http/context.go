package http

import (
	"context"

	"carrental-backend/internal/security"
)

type contextKey struct{}

var claimsKey = contextKey{}

// WithClaims returns a copy of ctx carrying the authenticated caller
func WithClaims(ctx context.Context, claims *security.UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the caller set by the auth middleware, if any
func ClaimsFromContext(ctx context.Context) (*security.UserClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*security.UserClaims)
	return claims, ok && claims != nil
}

// UserIDFromContext extracts the identity-provider user id of the caller.
// It reports false on public routes called without a valid token.
func UserIDFromContext(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.UserID() == "" {
		return "", false
	}
	return claims.UserID(), true
}
