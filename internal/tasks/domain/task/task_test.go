package task_test

import (
	"testing"
	"time"

	"github.com/aminebenjebli/flowspace/internal/tasks/domain/task"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/value_objects"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	userID := uuid.New()
	title := "Write the quarterly report"

	tsk, err := task.NewTask(userID, title)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tsk.ID())
	assert.Equal(t, userID, tsk.UserID())
	assert.Equal(t, title, tsk.Title())
	assert.Equal(t, task.StatusTodo, tsk.Status())
	assert.Equal(t, value_objects.PriorityMedium, tsk.Priority())
	assert.False(t, tsk.IsDone())
	assert.False(t, tsk.IsCancelled())
}

func TestNewTask_EmitsCreatedEvent(t *testing.T) {
	tsk, err := task.NewTask(uuid.New(), "Test Task")

	require.NoError(t, err)
	events := tsk.DomainEvents()
	require.Len(t, events, 1)

	createdEvent, ok := events[0].(task.TaskCreated)
	require.True(t, ok)
	assert.Equal(t, tsk.ID(), createdEvent.AggregateID())
	assert.Equal(t, task.RoutingKeyCreated, createdEvent.RoutingKey())
	assert.Equal(t, "Test Task", createdEvent.Title)
	assert.Equal(t, "medium", createdEvent.Priority)
}

func TestNewTask_EmptyTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		t.Run(title, func(t *testing.T) {
			_, err := task.NewTask(uuid.New(), title)
			assert.ErrorIs(t, err, task.ErrEmptyTitle)
		})
	}
}

func TestNewTask_TrimsTitle(t *testing.T) {
	tsk, err := task.NewTask(uuid.New(), "  Test Task  ")

	require.NoError(t, err)
	assert.Equal(t, "Test Task", tsk.Title())
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  task.Status
	}{
		{"todo", task.StatusTodo},
		{"in_progress", task.StatusInProgress},
		{"done", task.StatusDone},
		{"cancelled", task.StatusCancelled},
		{" DONE ", task.StatusDone},
	}
	for _, tt := range tests {
		got, err := task.ParseStatus(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := task.ParseStatus("archived")
	assert.ErrorIs(t, err, task.ErrInvalidStatus)
}

func TestTask_Start(t *testing.T) {
	tsk, _ := task.NewTask(uuid.New(), "Test")
	tsk.ClearDomainEvents()

	require.NoError(t, tsk.Start())
	assert.Equal(t, task.StatusInProgress, tsk.Status())

	events := tsk.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, task.RoutingKeyStarted, events[0].RoutingKey())

	// Starting twice is idempotent and emits no second event.
	require.NoError(t, tsk.Start())
	assert.Len(t, tsk.DomainEvents(), 1)
}

func TestTask_Complete(t *testing.T) {
	tsk, _ := task.NewTask(uuid.New(), "Test")
	tsk.ClearDomainEvents()

	require.NoError(t, tsk.Complete())

	assert.Equal(t, task.StatusDone, tsk.Status())
	assert.True(t, tsk.IsDone())
	require.NotNil(t, tsk.CompletedAt())
	assert.WithinDuration(t, time.Now(), *tsk.CompletedAt(), 5*time.Second)

	events := tsk.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, task.RoutingKeyCompleted, events[0].RoutingKey())
}

func TestTask_Complete_AlreadyDone(t *testing.T) {
	tsk, _ := task.NewTask(uuid.New(), "Test")
	require.NoError(t, tsk.Complete())

	assert.ErrorIs(t, tsk.Complete(), task.ErrTaskAlreadyDone)
}

func TestTask_Cancel(t *testing.T) {
	tsk, _ := task.NewTask(uuid.New(), "Test")

	require.NoError(t, tsk.Cancel())
	assert.True(t, tsk.IsCancelled())

	// Cancelling twice is idempotent.
	require.NoError(t, tsk.Cancel())
}

func TestTask_Cancel_Done(t *testing.T) {
	tsk, _ := task.NewTask(uuid.New(), "Test")
	require.NoError(t, tsk.Complete())

	assert.ErrorIs(t, tsk.Cancel(), task.ErrTaskAlreadyDone)
}

func TestTask_CancelledTaskRejectsChanges(t *testing.T) {
	tsk, _ := task.NewTask(uuid.New(), "Test")
	require.NoError(t, tsk.Cancel())

	assert.ErrorIs(t, tsk.SetTitle("New"), task.ErrTaskCancelled)
	assert.ErrorIs(t, tsk.SetDescription("x"), task.ErrTaskCancelled)
	assert.ErrorIs(t, tsk.SetPriority(value_objects.PriorityHigh), task.ErrTaskCancelled)
	assert.ErrorIs(t, tsk.Start(), task.ErrTaskCancelled)
	assert.ErrorIs(t, tsk.Complete(), task.ErrTaskCancelled)
}

func TestTask_SetDueDate(t *testing.T) {
	tsk, _ := task.NewTask(uuid.New(), "Test")
	due := time.Now().Add(48 * time.Hour)

	require.NoError(t, tsk.SetDueDate(&due))
	require.NotNil(t, tsk.DueDate())
	assert.True(t, due.Equal(*tsk.DueDate()))
}

func TestTask_SetInterpretation(t *testing.T) {
	tsk, _ := task.NewTask(uuid.New(), "Test")
	conf := 0.85

	tsk.SetInterpretation(task.Interpretation{
		PriorityReason:     "due within 24 hours",
		PriorityConfidence: &conf,
		MatchedSpan:        "demain",
		Language:           "fr",
	})

	meta := tsk.Interpretation()
	assert.Equal(t, "due within 24 hours", meta.PriorityReason)
	assert.Equal(t, "demain", meta.MatchedSpan)
	assert.Equal(t, "fr", meta.Language)
	require.NotNil(t, meta.PriorityConfidence)
	assert.InDelta(t, 0.85, *meta.PriorityConfidence, 0.001)
}

func TestTask_RestoreStatus(t *testing.T) {
	tsk, _ := task.NewTask(uuid.New(), "Test")
	completed := time.Now().Add(-time.Hour)

	tsk.RestoreStatus(task.StatusDone, &completed)

	assert.True(t, tsk.IsDone())
	require.NotNil(t, tsk.CompletedAt())
	// No lifecycle events on rehydration.
	assert.Len(t, tsk.DomainEvents(), 1) // only the creation event
}
