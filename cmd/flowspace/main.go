package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aminebenjebli/flowspace/adapter/cli"
	"github.com/aminebenjebli/flowspace/adapter/cli/task"
	"github.com/aminebenjebli/flowspace/internal/app"
	"github.com/aminebenjebli/flowspace/pkg/config"
	"github.com/aminebenjebli/flowspace/pkg/observability"
	"github.com/google/uuid"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		logger.Error("invalid FLOWSPACE_USER_ID", "error", err)
		os.Exit(1)
	}

	cliApp := &cli.App{
		CreateTaskHandler:         container.CreateTaskHandler,
		CreateTaskFromTextHandler: container.CreateTaskFromTextHandler,
		StartTaskHandler:          container.StartTaskHandler,
		CompleteTaskHandler:       container.CompleteTaskHandler,
		CancelTaskHandler:         container.CancelTaskHandler,
		ListTasksHandler:          container.ListTasksHandler,
		GetTaskHandler:            container.GetTaskHandler,
		Interpreter:               container.Interpreter,
	}
	cliApp.SetCurrentUserID(userID)
	cli.SetApp(cliApp)

	cli.AddCommand(task.Cmd)

	cli.Execute()
}
