package task

import (
	"errors"
	"strings"
	"time"

	"github.com/aminebenjebli/flowspace/internal/shared/domain"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/value_objects"
	"github.com/google/uuid"
)

var (
	ErrEmptyTitle       = errors.New("task title cannot be empty")
	ErrTaskAlreadyDone  = errors.New("task is already done")
	ErrTaskCancelled    = errors.New("task is cancelled")
	ErrInvalidStatus    = errors.New("invalid task status")
)

// Status represents the task lifecycle state.
type Status int

const (
	StatusTodo Status = iota
	StatusInProgress
	StatusDone
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusTodo:
		return "todo"
	case StatusInProgress:
		return "in_progress"
	case StatusDone:
		return "done"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ParseStatus creates a Status from its canonical string form.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo":
		return StatusTodo, nil
	case "in_progress":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	case "cancelled":
		return StatusCancelled, nil
	default:
		return StatusTodo, ErrInvalidStatus
	}
}

// Interpretation carries the audit trail of a natural-language
// interpretation that produced or updated a task.
type Interpretation struct {
	PriorityReason     string
	PriorityConfidence *float64
	MatchedSpan        string
	Language           string
}

// Task represents a unit of work to be done.
type Task struct {
	domain.BaseAggregateRoot
	userID         uuid.UUID
	title          string
	description    string
	status         Status
	priority       value_objects.Priority
	dueDate        *time.Time
	completedAt    *time.Time
	interpretation Interpretation
}

// NewTask creates a new task with the given title.
func NewTask(userID uuid.UUID, title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	t := &Task{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		userID:            userID,
		title:             title,
		status:            StatusTodo,
		priority:          value_objects.PriorityMedium,
	}

	t.AddDomainEvent(NewTaskCreated(t.ID(), t.title, t.priority.String()))

	return t, nil
}

// Getters

func (t *Task) UserID() uuid.UUID                { return t.userID }
func (t *Task) Title() string                    { return t.title }
func (t *Task) Description() string              { return t.description }
func (t *Task) Status() Status                   { return t.status }
func (t *Task) Priority() value_objects.Priority { return t.priority }
func (t *Task) DueDate() *time.Time              { return t.dueDate }
func (t *Task) CompletedAt() *time.Time          { return t.completedAt }
func (t *Task) Interpretation() Interpretation   { return t.interpretation }
func (t *Task) IsDone() bool                     { return t.status == StatusDone }
func (t *Task) IsCancelled() bool                { return t.status == StatusCancelled }

// SetTitle updates the task title.
func (t *Task) SetTitle(title string) error {
	if t.IsCancelled() {
		return ErrTaskCancelled
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	t.title = title
	t.Touch()
	return nil
}

// SetDescription updates the task description.
func (t *Task) SetDescription(description string) error {
	if t.IsCancelled() {
		return ErrTaskCancelled
	}
	t.description = strings.TrimSpace(description)
	t.Touch()
	return nil
}

// SetPriority updates the task priority.
func (t *Task) SetPriority(priority value_objects.Priority) error {
	if t.IsCancelled() {
		return ErrTaskCancelled
	}
	if !priority.IsValid() {
		return value_objects.ErrInvalidPriority
	}
	t.priority = priority
	t.Touch()
	return nil
}

// SetDueDate updates the due date.
func (t *Task) SetDueDate(dueDate *time.Time) error {
	if t.IsCancelled() {
		return ErrTaskCancelled
	}
	t.dueDate = dueDate
	t.Touch()
	return nil
}

// SetInterpretation records the interpretation audit metadata.
func (t *Task) SetInterpretation(meta Interpretation) {
	t.interpretation = meta
	t.Touch()
}

// Start marks the task as in progress.
func (t *Task) Start() error {
	if t.IsDone() {
		return ErrTaskAlreadyDone
	}
	if t.IsCancelled() {
		return ErrTaskCancelled
	}
	if t.status == StatusInProgress {
		return nil // Idempotent
	}
	t.status = StatusInProgress
	t.Touch()
	t.AddDomainEvent(NewTaskStarted(t.ID()))
	return nil
}

// Complete marks the task as done.
func (t *Task) Complete() error {
	if t.IsDone() {
		return ErrTaskAlreadyDone
	}
	if t.IsCancelled() {
		return ErrTaskCancelled
	}

	now := time.Now().UTC()
	t.status = StatusDone
	t.completedAt = &now
	t.Touch()

	t.AddDomainEvent(NewTaskCompleted(t.ID()))

	return nil
}

// Cancel marks the task as cancelled.
func (t *Task) Cancel() error {
	if t.IsCancelled() {
		return nil // Idempotent
	}
	if t.IsDone() {
		return ErrTaskAlreadyDone
	}

	t.status = StatusCancelled
	t.Touch()

	t.AddDomainEvent(NewTaskCancelled(t.ID()))

	return nil
}

// RestoreStatus applies a persisted status without lifecycle checks.
// Used when rehydrating from storage.
func (t *Task) RestoreStatus(status Status, completedAt *time.Time) {
	t.status = status
	t.completedAt = completedAt
}
