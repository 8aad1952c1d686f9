package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aminebenjebli/flowspace/internal/shared/domain"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/task"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/value_objects"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrOptimisticLocking = errors.New("task was modified concurrently")
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS tasks (
    id                  UUID PRIMARY KEY,
    user_id             UUID NOT NULL,
    title               TEXT NOT NULL,
    description         TEXT NOT NULL DEFAULT '',
    status              TEXT NOT NULL,
    priority            TEXT NOT NULL,
    due_date            TIMESTAMPTZ,
    completed_at        TIMESTAMPTZ,
    priority_reason     TEXT NOT NULL DEFAULT '',
    priority_confidence DOUBLE PRECISION,
    matched_span        TEXT NOT NULL DEFAULT '',
    language            TEXT NOT NULL DEFAULT '',
    version             BIGINT NOT NULL DEFAULT 0,
    created_at          TIMESTAMPTZ NOT NULL,
    updated_at          TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks (user_id);
CREATE INDEX IF NOT EXISTS idx_tasks_user_open ON tasks (user_id, status) WHERE status IN ('todo', 'in_progress');
`

// MigratePostgres creates the tasks schema if it does not exist.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to migrate tasks schema: %w", err)
	}
	return nil
}

// PostgresTaskRepository implements task.Repository using pgx.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskRepository creates a new Postgres task repository.
func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

// Save persists a task, using the version column for optimistic locking.
func (r *PostgresTaskRepository) Save(ctx context.Context, t *task.Task) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tasks SET
			title = $1, description = $2, status = $3, priority = $4,
			due_date = $5, completed_at = $6, priority_reason = $7,
			priority_confidence = $8, matched_span = $9, language = $10,
			version = version + 1, updated_at = $11
		WHERE id = $12 AND version = $13`,
		t.Title(), t.Description(), t.Status().String(), t.Priority().String(),
		t.DueDate(), t.CompletedAt(), t.Interpretation().PriorityReason,
		t.Interpretation().PriorityConfidence, t.Interpretation().MatchedSpan,
		t.Interpretation().Language, t.UpdatedAt(), t.ID(), t.Version(),
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() > 0 {
		t.IncrementVersion()
		return nil
	}

	// No row updated: either the task is new or the version is stale.
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, t.ID()).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check task existence: %w", err)
	}
	if exists {
		return ErrOptimisticLocking
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO tasks (
			id, user_id, title, description, status, priority, due_date,
			completed_at, priority_reason, priority_confidence, matched_span,
			language, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		t.ID(), t.UserID(), t.Title(), t.Description(), t.Status().String(),
		t.Priority().String(), t.DueDate(), t.CompletedAt(),
		t.Interpretation().PriorityReason, t.Interpretation().PriorityConfidence,
		t.Interpretation().MatchedSpan, t.Interpretation().Language,
		t.Version(), t.CreatedAt(), t.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

const taskColumns = `id, user_id, title, description, status, priority, due_date,
	completed_at, priority_reason, priority_confidence, matched_span, language,
	version, created_at, updated_at`

// FindByID retrieves a task by its ID.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// FindByUserID retrieves all tasks for a user.
func (r *PostgresTaskRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// FindOpen retrieves todo and in-progress tasks for a user.
func (r *PostgresTaskRepository) FindOpen(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = $1 AND status IN ('todo', 'in_progress')
		ORDER BY due_date NULLS LAST, created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// Delete removes a task.
func (r *PostgresTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func collectTasks(rows pgx.Rows) ([]*task.Task, error) {
	tasks := make([]*task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTask(row rowScanner) (*task.Task, error) {
	var (
		id, userID                              uuid.UUID
		title, description, status, priority    string
		dueDate, completedAt                    *time.Time
		priorityReason, matchedSpan, language   string
		priorityConfidence                      *float64
		version                                 int64
		createdAt, updatedAt                    time.Time
	)

	if err := row.Scan(&id, &userID, &title, &description, &status, &priority,
		&dueDate, &completedAt, &priorityReason, &priorityConfidence,
		&matchedSpan, &language, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return rehydrateTask(taskRow{
		ID: id, UserID: userID, Title: title, Description: description,
		Status: status, Priority: priority, DueDate: dueDate,
		CompletedAt: completedAt, PriorityReason: priorityReason,
		PriorityConfidence: priorityConfidence, MatchedSpan: matchedSpan,
		Language: language, Version: int(version),
		CreatedAt: createdAt, UpdatedAt: updatedAt,
	})
}

// taskRow is the storage shape shared by both drivers.
type taskRow struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Title              string
	Description        string
	Status             string
	Priority           string
	DueDate            *time.Time
	CompletedAt        *time.Time
	PriorityReason     string
	PriorityConfidence *float64
	MatchedSpan        string
	Language           string
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func rehydrateTask(row taskRow) (*task.Task, error) {
	t, err := task.NewTask(row.UserID, row.Title)
	if err != nil {
		return nil, err
	}

	if row.Description != "" {
		if err := t.SetDescription(row.Description); err != nil {
			return nil, fmt.Errorf("failed to set description: %w", err)
		}
	}

	priority, err := value_objects.ParsePriority(row.Priority)
	if err != nil {
		return nil, fmt.Errorf("invalid priority in database: %w", err)
	}
	if err := t.SetPriority(priority); err != nil {
		return nil, fmt.Errorf("failed to set priority: %w", err)
	}

	if row.DueDate != nil {
		if err := t.SetDueDate(row.DueDate); err != nil {
			return nil, fmt.Errorf("failed to set due date: %w", err)
		}
	}

	t.SetInterpretation(task.Interpretation{
		PriorityReason:     row.PriorityReason,
		PriorityConfidence: row.PriorityConfidence,
		MatchedSpan:        row.MatchedSpan,
		Language:           row.Language,
	})

	status, err := task.ParseStatus(row.Status)
	if err != nil {
		return nil, fmt.Errorf("invalid status in database: %w", err)
	}
	t.RestoreStatus(status, row.CompletedAt)

	// Clear events since we're rehydrating from storage.
	t.ClearDomainEvents()

	t.BaseAggregateRoot = domain.RehydrateBaseAggregateRoot(
		domain.RehydrateBaseEntity(row.ID, row.CreatedAt, row.UpdatedAt),
		row.Version,
	)

	return t, nil
}
