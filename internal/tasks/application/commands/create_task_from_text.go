package commands

import (
	"context"
	"log/slog"

	interpretdomain "github.com/aminebenjebli/flowspace/internal/interpret/domain"
	"github.com/aminebenjebli/flowspace/internal/shared/infrastructure/eventbus"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/task"
	"github.com/google/uuid"
)

// Interpreter turns free-form text into a structured task draft.
type Interpreter interface {
	Interpret(ctx context.Context, text string) (*interpretdomain.TaskDraft, error)
}

// CreateTaskFromTextCommand contains the raw sentence to interpret.
type CreateTaskFromTextCommand struct {
	UserID uuid.UUID
	Text   string
}

// CreateTaskFromTextResult contains the created task ID and the draft the
// interpretation produced, for display back to the user.
type CreateTaskFromTextResult struct {
	TaskID uuid.UUID
	Draft  *interpretdomain.TaskDraft
}

// CreateTaskFromTextHandler interprets natural language and creates the
// resulting task.
type CreateTaskFromTextHandler struct {
	interpreter Interpreter
	taskRepo    task.Repository
	publisher   eventbus.Publisher
	logger      *slog.Logger
}

// NewCreateTaskFromTextHandler creates a new CreateTaskFromTextHandler.
func NewCreateTaskFromTextHandler(interpreter Interpreter, taskRepo task.Repository, publisher eventbus.Publisher, logger *slog.Logger) *CreateTaskFromTextHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateTaskFromTextHandler{
		interpreter: interpreter,
		taskRepo:    taskRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle executes the CreateTaskFromTextCommand.
func (h *CreateTaskFromTextHandler) Handle(ctx context.Context, cmd CreateTaskFromTextCommand) (*CreateTaskFromTextResult, error) {
	draft, err := h.interpreter.Interpret(ctx, cmd.Text)
	if err != nil {
		return nil, err
	}

	title := draft.Title
	if title == "" {
		title = "Task"
	}

	t, err := task.NewTask(cmd.UserID, title)
	if err != nil {
		return nil, err
	}

	if draft.Description != "" {
		if err := t.SetDescription(draft.Description); err != nil {
			return nil, err
		}
	}
	if err := t.SetPriority(draft.Priority); err != nil {
		return nil, err
	}
	if draft.DueDate != nil {
		if err := t.SetDueDate(draft.DueDate); err != nil {
			return nil, err
		}
	}

	t.SetInterpretation(task.Interpretation{
		PriorityReason:     draft.PriorityReason,
		PriorityConfidence: draft.PriorityConfidence,
		MatchedSpan:        draft.MatchedSpan,
		Language:           string(draft.Language),
	})

	// Apply the interpreted lifecycle state last so the transitions emit
	// their events.
	switch draft.Status {
	case task.StatusInProgress:
		err = t.Start()
	case task.StatusDone:
		err = t.Complete()
	case task.StatusCancelled:
		err = t.Cancel()
	}
	if err != nil {
		return nil, err
	}

	if err := h.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	publishEvents(ctx, h.publisher, h.logger, t, cmd.UserID)

	h.logger.Info("task created from text",
		"task_id", t.ID().String(),
		"priority", t.Priority().String(),
		"status", t.Status().String(),
		"language", string(draft.Language),
	)

	return &CreateTaskFromTextResult{TaskID: t.ID(), Draft: draft}, nil
}
