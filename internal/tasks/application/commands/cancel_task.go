package commands

import (
	"context"
	"log/slog"

	"github.com/aminebenjebli/flowspace/internal/shared/infrastructure/eventbus"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/task"
	"github.com/google/uuid"
)

// CancelTaskCommand contains the data needed to cancel a task.
type CancelTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// CancelTaskHandler handles the CancelTaskCommand.
type CancelTaskHandler struct {
	taskRepo  task.Repository
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewCancelTaskHandler creates a new CancelTaskHandler.
func NewCancelTaskHandler(taskRepo task.Repository, publisher eventbus.Publisher, logger *slog.Logger) *CancelTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CancelTaskHandler{
		taskRepo:  taskRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the CancelTaskCommand.
func (h *CancelTaskHandler) Handle(ctx context.Context, cmd CancelTaskCommand) error {
	t, err := h.taskRepo.FindByID(ctx, cmd.TaskID)
	if err != nil {
		return err
	}
	if t.UserID() != cmd.UserID {
		return ErrNotTaskOwner
	}

	if err := t.Cancel(); err != nil {
		return err
	}

	if err := h.taskRepo.Save(ctx, t); err != nil {
		return err
	}

	publishEvents(ctx, h.publisher, h.logger, t, cmd.UserID)
	return nil
}
