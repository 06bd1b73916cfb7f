package task

import (
	"context"

	"github.com/kaveeshanethruwan/taskhive/internal/application/ports"
	"github.com/kaveeshanethruwan/taskhive/internal/domain"
	domerrors "github.com/kaveeshanethruwan/taskhive/internal/domain/errors"
)

type Page struct {
	Items []*domain.Task
	Total int
	Page  int
	Limit int
	Pages int
}

// Service owns task CRUD. Reads and writes are scoped to the owner;
// deletion is widened for EDITOR and ADMIN.
type Service struct {
	tasks ports.TaskStore
}

func NewService(tasks ports.TaskStore) *Service {
	return &Service{tasks: tasks}
}

func (s *Service) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	if t.Status == "" {
		t.Status = domain.TaskPending
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, userID int64, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	items, total, err := s.tasks.List(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	pages := (total + limit - 1) / limit
	return &Page{Items: items, Total: total, Page: page, Limit: limit, Pages: pages}, nil
}

// Get returns the task only if it belongs to userID.
func (s *Service) Get(ctx context.Context, id, userID int64) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil || t.UserID != userID {
		return nil, domerrors.ErrTaskNotFound
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, id, userID int64, apply func(*domain.Task)) (*domain.Task, error) {
	t, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	apply(t)
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the task. USER may only delete their own tasks; EDITOR
// and ADMIN may delete any.
func (s *Service) Delete(ctx context.Context, id int64, caller domain.Identity) error {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return domerrors.ErrTaskNotFound
	}
	if caller.Role == domain.RoleUser && t.UserID != caller.ID {
		return domerrors.ErrTaskNotFound
	}
	return s.tasks.Delete(ctx, id)
}
