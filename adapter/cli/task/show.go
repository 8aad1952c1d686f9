package task

import (
	"fmt"

	"github.com/aminebenjebli/flowspace/adapter/cli"
	"github.com/aminebenjebli/flowspace/internal/tasks/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show a task's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetTaskHandler == nil {
			return fmt.Errorf("application not initialized")
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		t, err := app.GetTaskHandler.Handle(cmd.Context(), queries.GetTaskQuery{TaskID: taskID})
		if err != nil {
			return fmt.Errorf("failed to fetch task: %w", err)
		}

		fmt.Printf("%s %s %s\n", statusIcon(t.Status), t.Title, priorityBadge(t.Priority))
		fmt.Printf("  ID: %s\n", t.ID)
		fmt.Printf("  Status: %s\n", t.Status)
		fmt.Printf("  Priority: %s\n", t.Priority)
		if t.PriorityReason != "" {
			fmt.Printf("  Priority reason: %s\n", t.PriorityReason)
		}
		if t.PriorityConfidence != nil {
			fmt.Printf("  Confidence: %.2f\n", *t.PriorityConfidence)
		}
		if t.Description != "" {
			fmt.Printf("  Description: %s\n", t.Description)
		}
		if t.DueDate != nil {
			fmt.Printf("  Due: %s\n", t.DueDate.Format("2006-01-02 15:04"))
		}
		if t.CompletedAt != nil {
			fmt.Printf("  Completed: %s\n", t.CompletedAt.Format("2006-01-02 15:04"))
		}
		fmt.Printf("  Created: %s\n", t.CreatedAt.Format("2006-01-02 15:04"))

		return nil
	},
}
