package queries

import (
	"context"
	"sort"
	"time"

	"github.com/aminebenjebli/flowspace/internal/tasks/domain/task"
	"github.com/google/uuid"
)

// TaskDTO is a data transfer object for tasks.
type TaskDTO struct {
	ID                 uuid.UUID
	Title              string
	Description        string
	Status             string
	Priority           string
	PriorityReason     string
	PriorityConfidence *float64
	DueDate            *time.Time
	CompletedAt        *time.Time
	CreatedAt          time.Time
}

// ListTasksQuery contains the parameters for listing tasks.
type ListTasksQuery struct {
	UserID     uuid.UUID
	Status     string // canonical status to filter by, or "" / "all"
	IncludeAll bool   // include done and cancelled tasks
	Priority   string
	Overdue    bool
	SortBy     string // "priority", "due_date", "created_at"
	Limit      int    // 0 = no limit
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	taskRepo task.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo task.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle executes the ListTasksQuery.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	var tasks []*task.Task
	var err error

	if query.IncludeAll || query.Status == "all" || isClosedStatus(query.Status) {
		tasks, err = h.taskRepo.FindByUserID(ctx, query.UserID)
	} else {
		tasks, err = h.taskRepo.FindOpen(ctx, query.UserID)
	}
	if err != nil {
		return nil, err
	}

	if query.Status != "" && query.Status != "all" {
		tasks = filterTasks(tasks, func(t *task.Task) bool {
			return t.Status().String() == query.Status
		})
	}
	if query.Priority != "" {
		tasks = filterTasks(tasks, func(t *task.Task) bool {
			return t.Priority().String() == query.Priority
		})
	}
	if query.Overdue {
		now := time.Now().UTC()
		tasks = filterTasks(tasks, func(t *task.Task) bool {
			return t.DueDate() != nil && t.DueDate().Before(now) && !t.IsDone()
		})
	}

	sortTasks(tasks, query.SortBy)

	if query.Limit > 0 && len(tasks) > query.Limit {
		tasks = tasks[:query.Limit]
	}

	return toTaskDTOs(tasks), nil
}

func isClosedStatus(status string) bool {
	return status == task.StatusDone.String() || status == task.StatusCancelled.String()
}

func filterTasks(tasks []*task.Task, keep func(*task.Task) bool) []*task.Task {
	filtered := tasks[:0]
	for _, t := range tasks {
		if keep(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func sortTasks(tasks []*task.Task, sortBy string) {
	switch sortBy {
	case "due_date":
		sort.SliceStable(tasks, func(i, j int) bool {
			di, dj := tasks[i].DueDate(), tasks[j].DueDate()
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return di.Before(*dj)
		})
	case "created_at":
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt().Before(tasks[j].CreatedAt())
		})
	default: // priority, highest first
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority().Weight() > tasks[j].Priority().Weight()
		})
	}
}

func toTaskDTOs(tasks []*task.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = toTaskDTO(t)
	}
	return dtos
}

func toTaskDTO(t *task.Task) TaskDTO {
	return TaskDTO{
		ID:                 t.ID(),
		Title:              t.Title(),
		Description:        t.Description(),
		Status:             t.Status().String(),
		Priority:           t.Priority().String(),
		PriorityReason:     t.Interpretation().PriorityReason,
		PriorityConfidence: t.Interpretation().PriorityConfidence,
		DueDate:            t.DueDate(),
		CompletedAt:        t.CompletedAt(),
		CreatedAt:          t.CreatedAt(),
	}
}
