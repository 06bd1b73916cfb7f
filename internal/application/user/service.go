package user

import (
	"context"

	"github.com/kaveeshanethruwan/taskhive/internal/application/ports"
	"github.com/kaveeshanethruwan/taskhive/internal/domain"
	domerrors "github.com/kaveeshanethruwan/taskhive/internal/domain/errors"
)

type CreateInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	AvatarURL string
}

type UpdateInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	AvatarURL *string
}

// Service owns user CRUD. Passwords are hashed here, at the boundary;
// nothing downstream ever sees plaintext.
type Service struct {
	users  ports.UserStore
	hasher ports.PasswordHasher
}

func NewService(users ports.UserStore, hasher ports.PasswordHasher) *Service {
	return &Service{users: users, hasher: hasher}
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.User, error) {
	existing, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domerrors.ErrEmailExists
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		AvatarURL:    input.AvatarURL,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domerrors.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Email != nil && *input.Email != u.Email {
		existing, err := s.users.GetByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != u.ID {
			return nil, domerrors.ErrEmailExists
		}
		u.Email = *input.Email
	}
	if input.FirstName != nil {
		u.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		u.LastName = *input.LastName
	}
	if input.AvatarURL != nil {
		u.AvatarURL = *input.AvatarURL
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}
