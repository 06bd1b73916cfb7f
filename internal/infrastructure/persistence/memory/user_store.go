package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kaveeshanethruwan/taskhive/internal/application/ports"
	"github.com/kaveeshanethruwan/taskhive/internal/domain"
)

// UserStore is a mutex-guarded in-memory ports.UserStore, used by tests
// and as a development fallback when no database is configured.
type UserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{nextID: 1, users: make(map[int64]*domain.User)}
}

func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.nextID
	s.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *UserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (s *UserStore) List(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.User, 0, len(s.users))
	for id := int64(1); id < s.nextID; id++ {
		if u, ok := s.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (s *UserStore) Update(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return nil
	}
	clone := cloneUser(user)
	clone.HashedRefreshToken = existing.HashedRefreshToken
	s.users[user.ID] = clone
	return nil
}

func (s *UserStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

func (s *UserStore) UpdateHashedRefreshToken(_ context.Context, id int64, hash *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	if hash == nil {
		u.HashedRefreshToken = nil
		return nil
	}
	h := *hash
	u.HashedRefreshToken = &h
	return nil
}

// SetRole mutates a user's role directly; test hook for role-change
// propagation checks.
func (s *UserStore) SetRole(id int64, role domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.Role = role
	}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	if u.HashedRefreshToken != nil {
		h := *u.HashedRefreshToken
		clone.HashedRefreshToken = &h
	}
	return &clone
}

var _ ports.UserStore = (*UserStore)(nil)
