package commands

import (
	"context"
	"log/slog"

	"github.com/aminebenjebli/flowspace/internal/shared/infrastructure/eventbus"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/task"
	"github.com/google/uuid"
)

// CompleteTaskCommand contains the data needed to complete a task.
type CompleteTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// CompleteTaskHandler handles the CompleteTaskCommand.
type CompleteTaskHandler struct {
	taskRepo  task.Repository
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewCompleteTaskHandler creates a new CompleteTaskHandler.
func NewCompleteTaskHandler(taskRepo task.Repository, publisher eventbus.Publisher, logger *slog.Logger) *CompleteTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompleteTaskHandler{
		taskRepo:  taskRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the CompleteTaskCommand.
func (h *CompleteTaskHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) error {
	t, err := h.taskRepo.FindByID(ctx, cmd.TaskID)
	if err != nil {
		return err
	}
	if t.UserID() != cmd.UserID {
		return ErrNotTaskOwner
	}

	if err := t.Complete(); err != nil {
		return err
	}

	if err := h.taskRepo.Save(ctx, t); err != nil {
		return err
	}

	publishEvents(ctx, h.publisher, h.logger, t, cmd.UserID)
	return nil
}
