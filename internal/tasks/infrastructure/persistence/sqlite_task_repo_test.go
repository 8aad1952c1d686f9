package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/aminebenjebli/flowspace/internal/tasks/domain/task"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/value_objects"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) *SQLiteTaskRepository {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteTaskRepository(db)
}

func TestSQLiteTaskRepository_SaveAndFindByID(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	userID := uuid.New()
	tsk, err := task.NewTask(userID, "Call the plumber")
	require.NoError(t, err)
	require.NoError(t, tsk.SetDescription("kitchen sink is leaking"))
	require.NoError(t, tsk.SetPriority(value_objects.PriorityHigh))

	due := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, tsk.SetDueDate(&due))

	conf := 0.85
	tsk.SetInterpretation(task.Interpretation{
		PriorityReason:     "due within 7 days",
		PriorityConfidence: &conf,
		MatchedSpan:        "tomorrow",
		Language:           "en",
	})

	require.NoError(t, repo.Save(ctx, tsk))

	found, err := repo.FindByID(ctx, tsk.ID())
	require.NoError(t, err)

	assert.Equal(t, tsk.ID(), found.ID())
	assert.Equal(t, userID, found.UserID())
	assert.Equal(t, "Call the plumber", found.Title())
	assert.Equal(t, "kitchen sink is leaking", found.Description())
	assert.Equal(t, task.StatusTodo, found.Status())
	assert.Equal(t, value_objects.PriorityHigh, found.Priority())
	require.NotNil(t, found.DueDate())
	assert.True(t, due.Equal(*found.DueDate()))

	meta := found.Interpretation()
	assert.Equal(t, "due within 7 days", meta.PriorityReason)
	require.NotNil(t, meta.PriorityConfidence)
	assert.InDelta(t, 0.85, *meta.PriorityConfidence, 0.001)
	assert.Equal(t, "tomorrow", meta.MatchedSpan)
	assert.Equal(t, "en", meta.Language)
	assert.Empty(t, found.DomainEvents())
}

func TestSQLiteTaskRepository_FindByID_NotFound(t *testing.T) {
	repo := newSQLiteRepo(t)

	_, err := repo.FindByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestSQLiteTaskRepository_UpdateIncrementsVersion(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	tsk, err := task.NewTask(uuid.New(), "Version me")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, tsk))
	initial := tsk.Version()

	require.NoError(t, tsk.Start())
	require.NoError(t, repo.Save(ctx, tsk))
	assert.Equal(t, initial+1, tsk.Version())

	found, err := repo.FindByID(ctx, tsk.ID())
	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, found.Status())
	assert.Equal(t, tsk.Version(), found.Version())
}

func TestSQLiteTaskRepository_OptimisticLocking(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	tsk, err := task.NewTask(uuid.New(), "Contended")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, tsk))

	stale, err := repo.FindByID(ctx, tsk.ID())
	require.NoError(t, err)

	require.NoError(t, tsk.Start())
	require.NoError(t, repo.Save(ctx, tsk))

	require.NoError(t, stale.Complete())
	err = repo.Save(ctx, stale)

	assert.ErrorIs(t, err, ErrOptimisticLocking)
}

func TestSQLiteTaskRepository_FindOpen(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	open, err := task.NewTask(userID, "Open task")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, open))

	done, err := task.NewTask(userID, "Done task")
	require.NoError(t, err)
	require.NoError(t, done.Complete())
	require.NoError(t, repo.Save(ctx, done))

	other, err := task.NewTask(uuid.New(), "Someone else")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, other))

	tasks, err := repo.FindOpen(ctx, userID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Open task", tasks[0].Title())

	all, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLiteTaskRepository_Delete(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	tsk, err := task.NewTask(uuid.New(), "Delete me")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, tsk))

	require.NoError(t, repo.Delete(ctx, tsk.ID()))

	_, err = repo.FindByID(ctx, tsk.ID())
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
