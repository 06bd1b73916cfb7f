package domain

import "time"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

func (s TaskStatus) String() string { return string(s) }

// ValidTaskStatus reports whether s is one of the known statuses.
func ValidTaskStatus(s string) bool {
	switch TaskStatus(s) {
	case TaskPending, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// Task belongs to exactly one user.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Status      TaskStatus
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
