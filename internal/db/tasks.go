package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"aawo/internal/task"
)

const taskColumns = `id, title, description, status, priority, due_at,
       effort_minutes, source, source_ref, version, created_at, updated_at`

// CreateTask adds a new task.
func (s *SQLite) CreateTask(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (
			id, title, description, status, priority, due_at,
			effort_minutes, source, source_ref, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var due any
	if t.Due != nil {
		due = t.Due.UTC().Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx, query,
		t.ID,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		due,
		t.EffortMinutes,
		t.Source,
		t.SourceRef,
		t.Version,
		t.CreatedAt.UTC().Format(time.RFC3339),
		t.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	return nil
}

// GetTask retrieves a task by ID. Returns nil, nil when absent.
func (s *SQLite) GetTask(ctx context.Context, id string) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	t, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return t, nil
}

// ListOpenTasks returns tasks still needing work, most recently updated first.
func (s *SQLite) ListOpenTasks(ctx context.Context) ([]*task.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE status IN (?, ?)
		ORDER BY updated_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, task.StatusTodo, task.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	return tasks, nil
}

// FindTaskByKeyword returns the most recently updated task whose title or
// description contains the keyword, preferring open tasks.
// Returns nil, nil when nothing matches.
func (s *SQLite) FindTaskByKeyword(ctx context.Context, keyword string) (*task.Task, error) {
	if keyword == "" {
		return nil, nil
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE title LIKE '%' || ? || '%' OR description LIKE '%' || ? || '%'
		ORDER BY
			CASE WHEN status IN (?, ?) THEN 0 ELSE 1 END,
			updated_at DESC
		LIMIT 1
	`

	t, err := scanTask(s.db.QueryRowContext(ctx, query,
		keyword, keyword, task.StatusTodo, task.StatusInProgress))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("searching tasks: %w", err)
	}
	return t, nil
}

// SetTaskStatus updates a task's status and bumps its version.
func (s *SQLite) SetTaskStatus(ctx context.Context, id string, status task.Status) error {
	query := `
		UPDATE tasks
		SET status = ?, version = version + 1, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		status, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating task status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

// SetTaskPriority updates a task's priority and bumps its version.
func (s *SQLite) SetTaskPriority(ctx context.Context, id string, priority task.Priority) error {
	if !priority.Valid() {
		return task.ErrInvalidPriority
	}

	query := `
		UPDATE tasks
		SET priority = ?, version = version + 1, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		priority, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating task priority: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

func scanTask(row scanner) (*task.Task, error) {
	var (
		t         task.Task
		due       sql.NullString
		createdAt string
		updatedAt string
	)

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&due,
		&t.EffortMinutes,
		&t.Source,
		&t.SourceRef,
		&t.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if due.Valid {
		d, err := parseTime(due.String)
		if err != nil {
			return nil, fmt.Errorf("parsing due date: %w", err)
		}
		t.Due = &d
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated at: %w", err)
	}

	return &t, nil
}
