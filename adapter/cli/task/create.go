package task

import (
	"fmt"
	"time"

	"github.com/aminebenjebli/flowspace/adapter/cli"
	"github.com/aminebenjebli/flowspace/internal/tasks/application/commands"
	"github.com/spf13/cobra"
)

var (
	priority    string
	description string
	dueDate     string
)

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new task",
	Long: `Create a new task with a title and optional properties.

Examples:
  flowspace task create "Complete project report"
  flowspace task create "Review PR" -p high
  flowspace task create "Write docs" --priority medium --due 2026-09-15`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateTaskHandler == nil {
			return fmt.Errorf("application not initialized")
		}

		createCmd := commands.CreateTaskCommand{
			UserID:      app.CurrentUserID,
			Title:       args[0],
			Description: description,
			Priority:    priority,
		}

		if dueDate != "" {
			parsed, err := time.Parse("2006-01-02", dueDate)
			if err != nil {
				return fmt.Errorf("invalid due date format (use YYYY-MM-DD): %w", err)
			}
			createCmd.DueDate = &parsed
		}

		result, err := app.CreateTaskHandler.Handle(cmd.Context(), createCmd)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		fmt.Printf("Task created: %s\n", result.TaskID)
		fmt.Printf("  title: %s\n", args[0])
		if priority != "" {
			fmt.Printf("  priority: %s\n", priority)
		}

		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&priority, "priority", "p", "", "task priority (low, medium, high, urgent)")
	createCmd.Flags().StringVar(&description, "description", "", "task description")
	createCmd.Flags().StringVar(&dueDate, "due", "", "due date (YYYY-MM-DD)")
}
