package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var interpretCmd = &cobra.Command{
	Use:   "interpret <sentence>",
	Short: "Preview how a sentence would be interpreted",
	Long: `Interpret a sentence without creating a task.

Shows the title, due date, priority, and status that "flowspace add"
would produce for the same input.

Examples:
  flowspace interpret "Rendez-vous chez le médecin demain"
  flowspace interpret "Pay taxes before friday"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Interpreter == nil {
			return fmt.Errorf("application not initialized")
		}

		input := strings.Join(args, " ")

		draft, err := app.Interpreter.Interpret(cmd.Context(), input)
		if err != nil {
			return fmt.Errorf("interpretation failed: %w", err)
		}

		fmt.Printf("Title: %s\n", draft.Title)
		if draft.Description != "" {
			fmt.Printf("Description: %s\n", draft.Description)
		}
		fmt.Printf("Priority: %s (%s)\n", draft.Priority.String(), draft.PriorityReason)
		if draft.PriorityConfidence != nil {
			fmt.Printf("Confidence: %.2f\n", *draft.PriorityConfidence)
		}
		fmt.Printf("Status: %s (%s)\n", draft.Status.String(), draft.StatusLabel)
		if draft.DueDate != nil {
			fmt.Printf("Due: %s\n", draft.DueDate.Format("Mon, Jan 2 2006 15:04"))
		} else {
			fmt.Println("Due: none")
		}
		if draft.MatchedSpan != "" {
			fmt.Printf("Matched: %q (%s)\n", draft.MatchedSpan, draft.Language)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(interpretCmd)
}
