package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaveeshanethruwan/taskhive/internal/domain"
	domerrors "github.com/kaveeshanethruwan/taskhive/internal/domain/errors"
	"github.com/kaveeshanethruwan/taskhive/internal/infrastructure/persistence/memory"
	"github.com/kaveeshanethruwan/taskhive/internal/infrastructure/security"
)

func newService() (*Service, *memory.UserStore) {
	store := memory.NewUserStore()
	return NewService(store, security.NewBcryptHasher(4)), store
}

func TestCreate_HashesPasswordAndDefaultsRole(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateInput{FirstName: "Kav", Email: "a@x.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.NotEqual(t, "secret123", u.PasswordHash)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{FirstName: "A", Email: "a@x.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{FirstName: "B", Email: "a@x.com", Password: "secret123"})
	assert.ErrorIs(t, err, domerrors.ErrEmailExists)
}

func TestUpdate_EmailConflictAndNotFound(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{FirstName: "A", Email: "a@x.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{FirstName: "B", Email: "b@x.com", Password: "secret123"})
	require.NoError(t, err)

	taken := "b@x.com"
	_, err = svc.Update(ctx, a.ID, UpdateInput{Email: &taken})
	assert.ErrorIs(t, err, domerrors.ErrEmailExists)

	name := "Renamed"
	updated, err := svc.Update(ctx, a.ID, UpdateInput{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FirstName)

	_, err = svc.Update(ctx, 999, UpdateInput{FirstName: &name})
	assert.ErrorIs(t, err, domerrors.ErrUserNotFound)
}

func TestDelete(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateInput{FirstName: "A", Email: "a@x.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))
	gone, err := store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.ErrorIs(t, svc.Delete(ctx, u.ID), domerrors.ErrUserNotFound)
}
