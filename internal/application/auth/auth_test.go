package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appauth "github.com/kaveeshanethruwan/taskhive/internal/application/auth"
	"github.com/kaveeshanethruwan/taskhive/internal/domain"
	domerrors "github.com/kaveeshanethruwan/taskhive/internal/domain/errors"
	infraauth "github.com/kaveeshanethruwan/taskhive/internal/infrastructure/auth"
	"github.com/kaveeshanethruwan/taskhive/internal/infrastructure/persistence/memory"
	"github.com/kaveeshanethruwan/taskhive/internal/infrastructure/security"
)

type fixture struct {
	users   *memory.UserStore
	session *appauth.Session
	login   *appauth.Login
	refresh *appauth.Refresh
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := memory.NewUserStore()
	codec, err := infraauth.NewTokenCodec("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	require.NoError(t, err)
	refreshHasher := security.NewArgon2Hasher(security.Argon2Params{
		Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	})
	passwordHasher := security.NewBcryptHasher(4)
	session := appauth.NewSession(users, refreshHasher, codec)
	return &fixture{
		users:   users,
		session: session,
		login:   appauth.NewLogin(users, passwordHasher, session),
		refresh: appauth.NewRefresh(users, refreshHasher, session),
	}
}

func (f *fixture) seedUser(t *testing.T, email, password string) *domain.User {
	t.Helper()
	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	u := &domain.User{FirstName: "Test", Email: email, PasswordHash: hash, Role: domain.RoleUser}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func TestIssuePairThenRefresh_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "a@x.com", "secret")

	pair, err := f.session.IssuePair(ctx, u.ID)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	result, err := f.refresh.Execute(ctx, u.ID, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, result.UserID)
}

func TestRotationInvalidatesPriorToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "a@x.com", "secret")

	first, err := f.session.IssuePair(ctx, u.ID)
	require.NoError(t, err)
	second, err := f.session.IssuePair(ctx, u.ID)
	require.NoError(t, err)

	_, err = f.refresh.Execute(ctx, u.ID, first.RefreshToken)
	assert.ErrorIs(t, err, domerrors.ErrInvalidRefreshToken)

	_, err = f.refresh.Execute(ctx, u.ID, second.RefreshToken)
	assert.NoError(t, err)
}

func TestSignOutRevokes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "a@x.com", "secret")

	pair, err := f.session.IssuePair(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, f.session.SignOut(ctx, u.ID))

	_, err = f.refresh.Execute(ctx, u.ID, pair.RefreshToken)
	assert.ErrorIs(t, err, domerrors.ErrInvalidRefreshToken)
}

func TestRefresh_UnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.refresh.Execute(context.Background(), 999, "whatever")
	assert.ErrorIs(t, err, domerrors.ErrInvalidRefreshToken)
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "a@x.com", "secret")

	result, err := f.login.Execute(ctx, appauth.LoginInput{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, result.UserID)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	stored, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.HashedRefreshToken)
	assert.NotEqual(t, result.RefreshToken, *stored.HashedRefreshToken,
		"plaintext refresh token must never be stored")
}

func TestLogin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "a@x.com", "secret")

	_, errUnknown := f.login.Execute(ctx, appauth.LoginInput{Email: "nobody@x.com", Password: "secret"})
	_, errWrongPw := f.login.Execute(ctx, appauth.LoginInput{Email: "a@x.com", Password: "wrong"})

	assert.ErrorIs(t, errUnknown, domerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, domerrors.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestLoginThenRefresh_RotatesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "a@x.com", "secret")

	login, err := f.login.Execute(ctx, appauth.LoginInput{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)

	rotated, err := f.refresh.Execute(ctx, login.UserID, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

	// The original token is now superseded.
	_, err = f.refresh.Execute(ctx, login.UserID, login.RefreshToken)
	assert.ErrorIs(t, err, domerrors.ErrInvalidRefreshToken)
}
