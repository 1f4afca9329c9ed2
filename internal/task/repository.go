package task

import "context"

// Repository defines the storage interface for tasks.
type Repository interface {
	// CreateTask adds a new task.
	CreateTask(ctx context.Context, t *Task) error

	// GetTask retrieves a task by ID. Returns nil, nil when absent.
	GetTask(ctx context.Context, id string) (*Task, error)

	// ListOpenTasks returns tasks with todo or in_progress status, most
	// recently updated first.
	ListOpenTasks(ctx context.Context) ([]*Task, error)

	// FindTaskByKeyword returns the most recently updated task whose title
	// or description contains the keyword, preferring open tasks.
	// Returns nil, nil when nothing matches.
	FindTaskByKeyword(ctx context.Context, keyword string) (*Task, error)

	// SetTaskStatus updates a task's status and bumps its version.
	SetTaskStatus(ctx context.Context, id string, status Status) error

	// SetTaskPriority updates a task's priority and bumps its version.
	SetTaskPriority(ctx context.Context, id string, priority Priority) error
}
