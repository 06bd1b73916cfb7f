package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaveeshanethruwan/taskhive/internal/domain"
	infraauth "github.com/kaveeshanethruwan/taskhive/internal/infrastructure/auth"
	"github.com/kaveeshanethruwan/taskhive/internal/infrastructure/persistence/memory"
)

func newTestGate(t *testing.T) (*Gate, *infraauth.TokenCodec, *memory.UserStore) {
	t.Helper()
	codec, err := infraauth.NewTokenCodec("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	require.NoError(t, err)
	users := memory.NewUserStore()
	return NewGate(codec, users), codec, users
}

func seedUser(t *testing.T, users *memory.UserStore, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{FirstName: "Test", Email: "t@x.com", PasswordHash: "irrelevant", Role: role}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func okHandler(t *testing.T, sawIdentity *domain.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		require.True(t, ok, "identity should be in context")
		*sawIdentity = id
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAccess_Success(t *testing.T) {
	gate, codec, users := newTestGate(t)
	u := seedUser(t, users, domain.RoleEditor)

	token, err := codec.SignAccess(u.ID)
	require.NoError(t, err)

	var saw domain.Identity
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	gate.RequireAccess(okHandler(t, &saw)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, u.ID, saw.ID)
	assert.Equal(t, domain.RoleEditor, saw.Role)
}

func TestRequireAccess_MissingOrMalformedHeader(t *testing.T) {
	gate, _, _ := newTestGate(t)
	handler := gate.RequireAccess(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not be called")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer garbage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireAccess_RejectsRefreshToken(t *testing.T) {
	gate, codec, users := newTestGate(t)
	u := seedUser(t, users, domain.RoleUser)

	refresh, err := codec.SignRefresh(u.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w := httptest.NewRecorder()
	gate.RequireAccess(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not be called")
	})).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAccess_DeletedSubjectIs404(t *testing.T) {
	gate, codec, users := newTestGate(t)
	u := seedUser(t, users, domain.RoleUser)

	token, err := codec.SignAccess(u.ID)
	require.NoError(t, err)
	require.NoError(t, users.Delete(context.Background(), u.ID))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	gate.RequireAccess(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not be called")
	})).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequireAccess_RoleChangeTakesEffectWithoutRelogin(t *testing.T) {
	gate, codec, users := newTestGate(t)
	u := seedUser(t, users, domain.RoleUser)

	token, err := codec.SignAccess(u.ID)
	require.NoError(t, err)
	users.SetRole(u.ID, domain.RoleAdmin)

	var saw domain.Identity
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	gate.RequireAccess(okHandler(t, &saw)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.RoleAdmin, saw.Role, "role comes from the store, not the token")
}

func TestRequireRefresh_SuccessAndCrossClass(t *testing.T) {
	gate, codec, users := newTestGate(t)
	u := seedUser(t, users, domain.RoleUser)

	refresh, err := codec.SignRefresh(u.ID)
	require.NoError(t, err)

	var gotToken string
	handler := gate.RequireRefresh(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, u.ID, id.ID)
		gotToken, ok = RefreshTokenFromContext(r.Context())
		require.True(t, ok)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, refresh, gotToken)

	// An access token must not pass the refresh gate.
	access, err := codec.SignAccess(u.ID)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoles(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		identity *domain.Identity
		required []domain.Role
		want     int
	}{
		{"admin passes admin/editor gate", &domain.Identity{ID: 1, Role: domain.RoleAdmin}, []domain.Role{domain.RoleAdmin, domain.RoleEditor}, http.StatusOK},
		{"user rejected by admin/editor gate", &domain.Identity{ID: 1, Role: domain.RoleUser}, []domain.Role{domain.RoleAdmin, domain.RoleEditor}, http.StatusForbidden},
		{"missing identity is unauthorized", nil, []domain.Role{domain.RoleAdmin}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/users/1", nil)
			if tt.identity != nil {
				req = req.WithContext(WithIdentity(req.Context(), *tt.identity))
			}
			w := httptest.NewRecorder()
			RequireRoles(tt.required...)(next).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
