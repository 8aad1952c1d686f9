package cli

import (
	"github.com/aminebenjebli/flowspace/internal/tasks/application/commands"
	"github.com/aminebenjebli/flowspace/internal/tasks/application/queries"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	// Command Handlers
	CreateTaskHandler         *commands.CreateTaskHandler
	CreateTaskFromTextHandler *commands.CreateTaskFromTextHandler
	StartTaskHandler          *commands.StartTaskHandler
	CompleteTaskHandler       *commands.CompleteTaskHandler
	CancelTaskHandler         *commands.CancelTaskHandler

	// Query Handlers
	ListTasksHandler *queries.ListTasksHandler
	GetTaskHandler   *queries.GetTaskHandler

	// Interpretation (used by the dry-run interpret command)
	Interpreter commands.Interpreter

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
