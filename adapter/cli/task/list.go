package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/aminebenjebli/flowspace/adapter/cli"
	"github.com/aminebenjebli/flowspace/internal/tasks/application/queries"
	"github.com/spf13/cobra"
)

var (
	showAll        bool
	status         string
	filterPriority string
	overdue        bool
	sortBy         string
	limit          int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks with optional filtering and sorting.

Filter Options:
  --status      Filter by status (todo, in_progress, done, cancelled)
  --priority    Filter by priority (urgent, high, medium, low)
  --overdue     Show only overdue tasks

Examples:
  flowspace task list                     # Open tasks, sorted by priority
  flowspace task list --all               # All tasks
  flowspace task list --priority urgent   # Only urgent tasks
  flowspace task list --sort due_date     # By due date
  flowspace task list --limit 5           # Top 5 tasks`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListTasksHandler == nil {
			return fmt.Errorf("application not initialized")
		}

		query := queries.ListTasksQuery{
			UserID:     app.CurrentUserID,
			IncludeAll: showAll,
			Status:     status,
			Priority:   filterPriority,
			Overdue:    overdue,
			SortBy:     sortBy,
			Limit:      limit,
		}

		tasks, err := app.ListTasksHandler.Handle(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		fmt.Printf("Tasks (%d):\n", len(tasks))
		fmt.Println(strings.Repeat("-", 60))

		now := time.Now()
		for _, t := range tasks {
			dueMarker := ""
			if t.DueDate != nil && t.Status != "done" && t.DueDate.Before(now) {
				dueMarker = " [OVERDUE]"
			}

			fmt.Printf("%s %s %s%s\n", statusIcon(t.Status), t.Title, priorityBadge(t.Priority), dueMarker)
			fmt.Printf("   ID: %s\n", t.ID.String()[:8])
			if t.DueDate != nil {
				fmt.Printf("   Due: %s\n", t.DueDate.Format("2006-01-02 15:04"))
			}
			if t.PriorityReason != "" {
				fmt.Printf("   Why: %s\n", t.PriorityReason)
			}
			fmt.Println()
		}

		return nil
	},
}

func statusIcon(status string) string {
	switch status {
	case "done":
		return "[x]"
	case "in_progress":
		return "[>]"
	case "cancelled":
		return "[-]"
	default:
		return "[ ]"
	}
}

func priorityBadge(priority string) string {
	switch priority {
	case "urgent":
		return "(!!!)"
	case "high":
		return "(!)"
	case "medium":
		return "(~)"
	case "low":
		return "(.)"
	default:
		return ""
	}
}

func init() {
	listCmd.Flags().BoolVarP(&showAll, "all", "a", false, "show all tasks including done and cancelled")
	listCmd.Flags().StringVarP(&status, "status", "s", "", "filter by status (todo, in_progress, done, cancelled)")
	listCmd.Flags().StringVarP(&filterPriority, "priority", "p", "", "filter by priority (urgent, high, medium, low)")
	listCmd.Flags().BoolVar(&overdue, "overdue", false, "show only overdue tasks")
	listCmd.Flags().StringVar(&sortBy, "sort", "", "sort by field (priority, due_date, created_at)")
	listCmd.Flags().IntVarP(&limit, "limit", "n", 0, "max number of tasks to show (0 = no limit)")
}
