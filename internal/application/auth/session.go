package auth

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kaveeshanethruwan/taskhive/internal/application/ports"
)

// TokenPair is the response payload of login and refresh. Neither token is
// ever persisted as-is; only the Argon2 hash of the refresh token survives
// the request.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session issues token pairs and revokes them. Used identically by login
// and refresh: issuing a new pair overwrites the stored refresh hash,
// which is the entire rotation mechanism.
type Session struct {
	users  ports.UserStore
	hasher ports.RefreshHasher
	codec  ports.TokenCodec
}

func NewSession(users ports.UserStore, hasher ports.RefreshHasher, codec ports.TokenCodec) *Session {
	return &Session{users: users, hasher: hasher, codec: codec}
}

// IssuePair signs the two tokens concurrently, stores the hash of the
// refresh token, and returns the plaintext pair. A concurrent IssuePair
// for the same user is last-write-wins on the stored hash: the loser's
// refresh token is unusable from the moment it is returned.
func (s *Session) IssuePair(ctx context.Context, userID int64) (*TokenPair, error) {
	var accessToken, refreshToken string
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accessToken, err = s.codec.SignAccess(userID)
		return err
	})
	g.Go(func() error {
		var err error
		refreshToken, err = s.codec.SignRefresh(userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(refreshToken)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateHashedRefreshToken(ctx, userID, &hash); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// SignOut clears the stored refresh hash. No blacklist exists anywhere
// else; this single write revokes the session.
func (s *Session) SignOut(ctx context.Context, userID int64) error {
	return s.users.UpdateHashedRefreshToken(ctx, userID, nil)
}
