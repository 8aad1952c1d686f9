package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aminebenjebli/flowspace/internal/shared/infrastructure/eventbus"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/task"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/value_objects"
	"github.com/google/uuid"
)

// ErrNotTaskOwner is returned when a command targets a task owned by
// another user.
var ErrNotTaskOwner = errors.New("task belongs to another user")

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	UserID      uuid.UUID
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

// CreateTaskResult contains the result of creating a task.
type CreateTaskResult struct {
	TaskID uuid.UUID
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo  task.Repository
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo task.Repository, publisher eventbus.Publisher, logger *slog.Logger) *CreateTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateTaskHandler{
		taskRepo:  taskRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the CreateTaskCommand.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	t, err := task.NewTask(cmd.UserID, cmd.Title)
	if err != nil {
		return nil, err
	}

	if cmd.Description != "" {
		if err := t.SetDescription(cmd.Description); err != nil {
			return nil, err
		}
	}

	if cmd.Priority != "" {
		priority, err := value_objects.ParsePriority(cmd.Priority)
		if err != nil {
			return nil, err
		}
		if err := t.SetPriority(priority); err != nil {
			return nil, err
		}
	}

	if cmd.DueDate != nil {
		if err := t.SetDueDate(cmd.DueDate); err != nil {
			return nil, err
		}
	}

	if err := h.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	publishEvents(ctx, h.publisher, h.logger, t, cmd.UserID)

	return &CreateTaskResult{TaskID: t.ID()}, nil
}
