package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kaveeshanethruwan/taskhive/internal/application/ports"
	"github.com/kaveeshanethruwan/taskhive/internal/domain"
)

// Gate is the per-request authorization pipeline. Public routes simply
// omit its middleware; everything else passes resolvePolicy (the router's
// middleware chain), then bearer verification, then an optional role
// check via RequireRoles.
type Gate struct {
	codec ports.TokenCodec
	users ports.UserStore
}

func NewGate(codec ports.TokenCodec, users ports.UserStore) *Gate {
	return &Gate{codec: codec, users: users}
}

// RequireAccess verifies the access token and resolves the caller's
// current identity. The role is re-fetched from the store on every
// request, never trusted from the token, so a role change takes effect
// without re-login. A subject that no longer exists is a 404.
func (g *Gate) RequireAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeGateErr(w, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization")
			return
		}
		userID, err := g.codec.VerifyAccess(token)
		if err != nil {
			writeGateErr(w, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}
		user, err := g.users.GetByID(r.Context(), userID)
		if err != nil {
			writeGateErr(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		if user == nil {
			writeGateErr(w, http.StatusNotFound, "not_found", "token user not found")
			return
		}
		ctx := WithIdentity(r.Context(), user.Identity())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRefresh verifies a refresh-class bearer. Only the refresh
// endpoint mounts it; access tokens are signed with a different secret
// and never pass. Hash comparison against the stored slot happens in the
// handler, which needs the raw token.
func (g *Gate) RequireRefresh(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeGateErr(w, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization")
			return
		}
		userID, err := g.codec.VerifyRefresh(token)
		if err != nil {
			writeGateErr(w, http.StatusUnauthorized, "invalid_token", "invalid refresh token")
			return
		}
		ctx := WithIdentity(r.Context(), domain.Identity{ID: userID})
		ctx = WithRefreshToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles gates on flat set membership. Must be mounted after
// RequireAccess. A known caller with the wrong role is 403, not 401.
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeGateErr(w, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization")
				return
			}
			if !identity.Role.OneOf(roles...) {
				writeGateErr(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(auth, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

func writeGateErr(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": errCode})
}
