package commands

import (
	"context"
	"log/slog"

	sharedApplication "github.com/aminebenjebli/flowspace/internal/shared/application"
	"github.com/aminebenjebli/flowspace/internal/shared/infrastructure/eventbus"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/task"
	"github.com/google/uuid"
)

// publishEvents pushes the aggregate's pending events to the bus.
// Event delivery is best-effort: a publish failure is logged, never
// surfaced, since the task itself is already persisted.
func publishEvents(ctx context.Context, pub eventbus.Publisher, logger *slog.Logger, t *task.Task, userID uuid.UUID) {
	events := t.DomainEvents()
	if len(events) == 0 || pub == nil {
		return
	}

	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(userID))

	if err := eventbus.PublishDomainEvents(ctx, pub, events); err != nil {
		logger.Warn("failed to publish task events",
			"task_id", t.ID().String(),
			"error", err,
		)
	}
	t.ClearDomainEvents()
}
