package commands

import (
	"context"
	"log/slog"

	"github.com/aminebenjebli/flowspace/internal/shared/infrastructure/eventbus"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/task"
	"github.com/google/uuid"
)

// StartTaskCommand contains the data needed to start a task.
type StartTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// StartTaskHandler handles the StartTaskCommand.
type StartTaskHandler struct {
	taskRepo  task.Repository
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewStartTaskHandler creates a new StartTaskHandler.
func NewStartTaskHandler(taskRepo task.Repository, publisher eventbus.Publisher, logger *slog.Logger) *StartTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StartTaskHandler{
		taskRepo:  taskRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the StartTaskCommand.
func (h *StartTaskHandler) Handle(ctx context.Context, cmd StartTaskCommand) error {
	t, err := h.taskRepo.FindByID(ctx, cmd.TaskID)
	if err != nil {
		return err
	}
	if t.UserID() != cmd.UserID {
		return ErrNotTaskOwner
	}

	if err := t.Start(); err != nil {
		return err
	}

	if err := h.taskRepo.Save(ctx, t); err != nil {
		return err
	}

	publishEvents(ctx, h.publisher, h.logger, t, cmd.UserID)
	return nil
}
