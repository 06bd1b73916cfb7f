package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kaveeshanethruwan/taskhive/internal/application/ports"
	"github.com/kaveeshanethruwan/taskhive/internal/domain"
)

// TaskStore is a mutex-guarded in-memory ports.TaskStore.
type TaskStore struct {
	mu     sync.RWMutex
	nextID int64
	tasks  map[int64]*domain.Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{nextID: 1, tasks: make(map[int64]*domain.Task)}
}

func (s *TaskStore) Create(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task.ID = s.nextID
	s.nextID++
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	clone := *task
	s.tasks[task.ID] = &clone
	return nil
}

func (s *TaskStore) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	clone := *t
	return &clone, nil
}

func (s *TaskStore) List(_ context.Context, userID int64, limit, offset int) ([]*domain.Task, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var owned []*domain.Task
	for _, t := range s.tasks {
		if t.UserID == userID {
			clone := *t
			owned = append(owned, &clone)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })
	total := len(owned)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return owned[offset:end], total, nil
}

func (s *TaskStore) Update(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; !ok {
		return nil
	}
	task.UpdatedAt = time.Now()
	clone := *task
	s.tasks[task.ID] = &clone
	return nil
}

func (s *TaskStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
	return nil
}

var _ ports.TaskStore = (*TaskStore)(nil)
