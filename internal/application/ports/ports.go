package ports

import (
	"context"

	"github.com/kaveeshanethruwan/taskhive/internal/domain"
)

// UserStore defines persistence for users. Lookups return (nil, nil) when
// no row exists.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
	// UpdateHashedRefreshToken overwrites the single refresh-hash slot.
	// nil clears it, revoking the session.
	UpdateHashedRefreshToken(ctx context.Context, id int64, hash *string) error
}

// TaskStore defines persistence for tasks.
type TaskStore interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	// List returns one page of the user's tasks ordered by creation time,
	// plus the unpaginated total.
	List(ctx context.Context, userID int64, limit, offset int) ([]*domain.Task, int, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id int64) error
}

// PasswordHasher hashes and verifies login passwords (bcrypt).
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// RefreshHasher hashes refresh tokens at rest (Argon2id). Deliberately a
// separate port from PasswordHasher: the two must stay independently
// swappable.
type RefreshHasher interface {
	Hash(token string) (string, error)
	Verify(token, hash string) bool
}

// TokenCodec signs and verifies the two token classes. Access and refresh
// use distinct secrets, so a codec must never accept the other class.
type TokenCodec interface {
	SignAccess(userID int64) (string, error)
	SignRefresh(userID int64) (string, error)
	VerifyAccess(token string) (userID int64, err error)
	VerifyRefresh(token string) (userID int64, err error)
}

// FileStore archives raw uploads and returns a durable URL.
type FileStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (url string, err error)
}
