package auth

import (
	"context"

	"github.com/kaveeshanethruwan/taskhive/internal/application/ports"
	domerrors "github.com/kaveeshanethruwan/taskhive/internal/domain/errors"
)

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	UserID       int64
	AccessToken  string
	RefreshToken string
}

// Login validates credentials and opens a session.
type Login struct {
	users   ports.UserStore
	hasher  ports.PasswordHasher
	session *Session
}

func NewLogin(users ports.UserStore, hasher ports.PasswordHasher, session *Session) *Login {
	return &Login{users: users, hasher: hasher, session: session}
}

func (uc *Login) Execute(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	// Unknown email and wrong password must be indistinguishable.
	if user == nil || !uc.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, domerrors.ErrInvalidCredentials
	}
	pair, err := uc.session.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		UserID:       user.ID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}
