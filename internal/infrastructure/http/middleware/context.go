package middleware

import (
	"context"

	"github.com/kaveeshanethruwan/taskhive/internal/domain"
)

type contextKey string

const (
	identityContextKey     contextKey = "identity"
	refreshTokenContextKey contextKey = "refresh_token"
)

// WithIdentity injects the authenticated principal into the context.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext returns the principal set by RequireAccess.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(domain.Identity)
	return id, ok
}

// WithRefreshToken stashes the presented bearer token for the refresh
// handler, which must compare it against the stored hash.
func WithRefreshToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, refreshTokenContextKey, token)
}

// RefreshTokenFromContext returns the token set by RequireRefresh.
func RefreshTokenFromContext(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(refreshTokenContextKey).(string)
	return tok, ok
}
