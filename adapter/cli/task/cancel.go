package task

import (
	"fmt"

	"github.com/aminebenjebli/flowspace/adapter/cli"
	"github.com/aminebenjebli/flowspace/internal/tasks/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel [task-id]",
	Short: "Cancel a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CancelTaskHandler == nil {
			return fmt.Errorf("application not initialized")
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		if err := app.CancelTaskHandler.Handle(cmd.Context(), commands.CancelTaskCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		}); err != nil {
			return fmt.Errorf("failed to cancel task: %w", err)
		}

		fmt.Printf("Task cancelled: %s\n", taskID)
		return nil
	},
}
