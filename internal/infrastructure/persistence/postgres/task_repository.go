package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kaveeshanethruwan/taskhive/internal/application/ports"
	"github.com/kaveeshanethruwan/taskhive/internal/domain"
)

const (
	createTaskSQL = `
		INSERT INTO tasks (user_id, title, description, status, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	getTaskByIDSQL = `
		SELECT id, user_id, title, description, status, due_date, created_at, updated_at
		FROM tasks WHERE id = $1`
	listTasksSQL = `
		SELECT id, user_id, title, description, status, due_date, created_at, updated_at
		FROM tasks WHERE user_id = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	countTasksSQL = `SELECT COUNT(*) FROM tasks WHERE user_id = $1`
	updateTaskSQL = `
		UPDATE tasks SET title = $1, description = $2, status = $3, due_date = $4, updated_at = NOW()
		WHERE id = $5`
	deleteTaskSQL = `DELETE FROM tasks WHERE id = $1`
)

// TaskRepository implements ports.TaskStore on PostgreSQL.
type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.pool.QueryRow(ctx, createTaskSQL,
		task.UserID, task.Title, task.Description, task.Status.String(), task.DueDate,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, getTaskByIDSQL, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func (r *TaskRepository) List(ctx context.Context, userID int64, limit, offset int) ([]*domain.Task, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, countTasksSQL, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, listTasksSQL, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, t)
	}
	return tasks, total, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	_, err := r.pool.Exec(ctx, updateTaskSQL,
		task.Title, task.Description, task.Status.String(), task.DueDate, task.ID)
	return err
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, deleteTaskSQL, id)
	return err
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	var status string
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &status,
		&t.DueDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	return &t, nil
}

var _ ports.TaskStore = (*TaskRepository)(nil)
