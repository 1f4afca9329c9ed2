// Package task defines the task (to-do) domain type.
package task

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors.
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrInvalidPriority = errors.New("priority must be low, medium, high, or critical")
)

// Domain errors.
var ErrTaskNotFound = errors.New("task not found")

// Status represents the state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusBlocked    Status = "blocked"
	StatusCanceled   Status = "canceled"
)

// Priority orders tasks for scheduling and review.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid returns true if the priority is a recognized value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// Task sources record where a task came from.
const (
	SourceManual  = "manual"
	SourceMeeting = "meeting"
	SourceChat    = "chat"
)

const (
	// MinEffortMinutes is the smallest schedulable effort.
	MinEffortMinutes = 15
	// MaxEffortMinutes caps effort at a full working day.
	MaxEffortMinutes = 8 * 60
)

// Task is a unit of work that may be placed on the calendar as a block.
type Task struct {
	ID            string
	Title         string
	Description   string
	Status        Status
	Priority      Priority
	Due           *time.Time
	EffortMinutes int
	Source        string
	SourceRef     string // e.g. the meeting a candidate came from
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// New creates a validated Task. Effort is clamped into the allowed range.
func New(title, source string, due *time.Time, effortMinutes int, priority Priority) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if effortMinutes < MinEffortMinutes {
		effortMinutes = MinEffortMinutes
	}
	if effortMinutes > MaxEffortMinutes {
		effortMinutes = MaxEffortMinutes
	}

	now := time.Now()
	return &Task{
		ID:            uuid.NewString(),
		Title:         title,
		Status:        StatusTodo,
		Priority:      priority,
		Due:           due,
		EffortMinutes: effortMinutes,
		Source:        source,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsOpen reports whether the task still needs work.
func (t *Task) IsOpen() bool {
	return t.Status == StatusTodo || t.Status == StatusInProgress
}
