package auth

import (
	"context"

	"github.com/kaveeshanethruwan/taskhive/internal/application/ports"
	domerrors "github.com/kaveeshanethruwan/taskhive/internal/domain/errors"
)

// Refresh redeems a refresh token whose signature the gate has already
// verified, and rotates it. A syntactically valid token is not enough:
// its Argon2 hash must match the user's stored slot.
type Refresh struct {
	users   ports.UserStore
	hasher  ports.RefreshHasher
	session *Session
}

func NewRefresh(users ports.UserStore, hasher ports.RefreshHasher, session *Session) *Refresh {
	return &Refresh{users: users, hasher: hasher, session: session}
}

func (uc *Refresh) Execute(ctx context.Context, userID int64, presented string) (*LoginResult, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	// "No session" and "wrong token" share one error to avoid an oracle.
	if user == nil || user.HashedRefreshToken == nil {
		return nil, domerrors.ErrInvalidRefreshToken
	}
	if !uc.hasher.Verify(presented, *user.HashedRefreshToken) {
		return nil, domerrors.ErrInvalidRefreshToken
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
