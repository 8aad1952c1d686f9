package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aminebenjebli/flowspace/internal/tasks/domain/task"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
    id                  TEXT PRIMARY KEY,
    user_id             TEXT NOT NULL,
    title               TEXT NOT NULL,
    description         TEXT NOT NULL DEFAULT '',
    status              TEXT NOT NULL,
    priority            TEXT NOT NULL,
    due_date            TEXT,
    completed_at        TEXT,
    priority_reason     TEXT NOT NULL DEFAULT '',
    priority_confidence REAL,
    matched_span        TEXT NOT NULL DEFAULT '',
    language            TEXT NOT NULL DEFAULT '',
    version             INTEGER NOT NULL DEFAULT 0,
    created_at          TEXT NOT NULL,
    updated_at          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks (user_id);
`

// OpenSQLite opens (and migrates) the local-mode SQLite database.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	return db, nil
}

// SQLiteTaskRepository implements task.Repository using SQLite for local mode.
type SQLiteTaskRepository struct {
	db *sql.DB
}

// NewSQLiteTaskRepository creates a new SQLite task repository.
func NewSQLiteTaskRepository(db *sql.DB) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{db: db}
}

// Save persists a task, using the version column for optimistic locking.
func (r *SQLiteTaskRepository) Save(ctx context.Context, t *task.Task) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET
			title = ?, description = ?, status = ?, priority = ?,
			due_date = ?, completed_at = ?, priority_reason = ?,
			priority_confidence = ?, matched_span = ?, language = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		t.Title(), t.Description(), t.Status().String(), t.Priority().String(),
		formatNullableTime(t.DueDate()), formatNullableTime(t.CompletedAt()),
		t.Interpretation().PriorityReason, t.Interpretation().PriorityConfidence,
		t.Interpretation().MatchedSpan, t.Interpretation().Language,
		t.UpdatedAt().Format(time.RFC3339), t.ID().String(), t.Version(),
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected > 0 {
		t.IncrementVersion()
		return nil
	}

	var exists bool
	err = r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = ?)`, t.ID().String()).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check task existence: %w", err)
	}
	if exists {
		return ErrOptimisticLocking
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, user_id, title, description, status, priority, due_date,
			completed_at, priority_reason, priority_confidence, matched_span,
			language, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID().String(), t.UserID().String(), t.Title(), t.Description(),
		t.Status().String(), t.Priority().String(),
		formatNullableTime(t.DueDate()), formatNullableTime(t.CompletedAt()),
		t.Interpretation().PriorityReason, t.Interpretation().PriorityConfidence,
		t.Interpretation().MatchedSpan, t.Interpretation().Language,
		t.Version(), t.CreatedAt().Format(time.RFC3339), t.UpdatedAt().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sqliteTaskColumns+` FROM tasks WHERE id = ?`, id.String())
	t, err := scanSQLiteTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// FindByUserID retrieves all tasks for a user.
func (r *SQLiteTaskRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	return r.queryTasks(ctx, `SELECT `+sqliteTaskColumns+` FROM tasks WHERE user_id = ? ORDER BY created_at`, userID.String())
}

// FindOpen retrieves todo and in-progress tasks for a user.
func (r *SQLiteTaskRepository) FindOpen(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	return r.queryTasks(ctx, `
		SELECT `+sqliteTaskColumns+` FROM tasks
		WHERE user_id = ? AND status IN ('todo', 'in_progress')
		ORDER BY due_date IS NULL, due_date, created_at`, userID.String())
}

// Delete removes a task.
func (r *SQLiteTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	return err
}

const sqliteTaskColumns = `id, user_id, title, description, status, priority, due_date,
	completed_at, priority_reason, priority_confidence, matched_span, language,
	version, created_at, updated_at`

func (r *SQLiteTaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*task.Task, 0)
	for rows.Next() {
		t, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanSQLiteTask(row rowScanner) (*task.Task, error) {
	var (
		id, userID, title, description, status, priority string
		dueDate, completedAt                             sql.NullString
		priorityReason, matchedSpan, language            string
		priorityConfidence                               sql.NullFloat64
		version                                          int64
		createdAt, updatedAt                             string
	)

	if err := row.Scan(&id, &userID, &title, &description, &status, &priority,
		&dueDate, &completedAt, &priorityReason, &priorityConfidence,
		&matchedSpan, &language, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	taskID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid task id: %w", err)
	}
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id: %w", err)
	}

	due, err := parseNullableTime(dueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid due_date: %w", err)
	}
	completed, err := parseNullableTime(completedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid completed_at: %w", err)
	}
	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	updated, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at: %w", err)
	}

	var confidence *float64
	if priorityConfidence.Valid {
		confidence = &priorityConfidence.Float64
	}

	return rehydrateTask(taskRow{
		ID: taskID, UserID: ownerID, Title: title, Description: description,
		Status: status, Priority: priority, DueDate: due, CompletedAt: completed,
		PriorityReason: priorityReason, PriorityConfidence: confidence,
		MatchedSpan: matchedSpan, Language: language, Version: int(version),
		CreatedAt: created, UpdatedAt: updated,
	})
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
