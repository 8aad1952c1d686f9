package cli

import (
	"fmt"
	"strings"

	"github.com/aminebenjebli/flowspace/internal/tasks/application/commands"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <sentence>",
	Short: "Add a task from a natural-language sentence",
	Long: `Add a task by describing it in plain language.

The sentence is interpreted to extract the title, due date, priority,
and status. French, Spanish, Portuguese, German, and English temporal
expressions are understood.

Examples:
  flowspace add "Call the doctor tomorrow at 10am"
  flowspace add "Payer la facture avant vendredi"
  flowspace add "Finish report urgent"
  flowspace add "Comprar regalos el 15 de junio"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.CreateTaskFromTextHandler == nil {
			return fmt.Errorf("application not initialized")
		}

		input := strings.Join(args, " ")

		result, err := app.CreateTaskFromTextHandler.Handle(cmd.Context(), commands.CreateTaskFromTextCommand{
			UserID: app.CurrentUserID,
			Text:   input,
		})
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		draft := result.Draft
		fmt.Println("Task created!")
		fmt.Printf("  Title: %s\n", draft.Title)
		fmt.Printf("  ID: %s\n", result.TaskID.String()[:8])
		fmt.Printf("  Priority: %s (%s)\n", draft.Priority.String(), draft.PriorityReason)
		fmt.Printf("  Status: %s\n", draft.StatusLabel)
		if draft.DueDate != nil {
			fmt.Printf("  Due: %s\n", draft.DueDate.Format("Mon, Jan 2 2006 15:04"))
		}
		if draft.MatchedSpan != "" {
			fmt.Printf("  Matched: %q (%s)\n", draft.MatchedSpan, draft.Language)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
