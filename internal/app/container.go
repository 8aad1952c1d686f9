// Package app wires the application dependencies into a single container.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	interpretServices "github.com/aminebenjebli/flowspace/internal/interpret/application/services"
	"github.com/aminebenjebli/flowspace/internal/interpret/infrastructure/oracle"
	"github.com/aminebenjebli/flowspace/internal/shared/infrastructure/eventbus"
	"github.com/aminebenjebli/flowspace/internal/tasks/application/commands"
	"github.com/aminebenjebli/flowspace/internal/tasks/application/queries"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/task"
	"github.com/aminebenjebli/flowspace/internal/tasks/infrastructure/persistence"
	"github.com/aminebenjebli/flowspace/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Storage
	Pool     *pgxpool.Pool
	SQLiteDB *sql.DB
	TaskRepo task.Repository

	// Redis
	RedisClient *redis.Client

	// Event bus
	EventPublisher eventbus.Publisher

	// Interpretation pipeline
	Interpreter *interpretServices.Interpreter

	// Command handlers
	CreateTaskHandler         *commands.CreateTaskHandler
	CreateTaskFromTextHandler *commands.CreateTaskFromTextHandler
	StartTaskHandler          *commands.StartTaskHandler
	CompleteTaskHandler       *commands.CompleteTaskHandler
	CancelTaskHandler         *commands.CancelTaskHandler

	// Query handlers
	ListTasksHandler *queries.ListTasksHandler
	GetTaskHandler   *queries.GetTaskHandler
}

// NewContainer builds the dependency graph. Postgres, Redis, and RabbitMQ
// are used when configured; otherwise the container falls back to SQLite
// and the in-process bus, so the CLI works with no external services.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if err := c.initStorage(ctx); err != nil {
		return nil, err
	}
	c.initRedis(ctx)
	c.initEventBus()
	c.initInterpreter()
	c.initHandlers()

	return c, nil
}

func (c *Container) initStorage(ctx context.Context) error {
	if c.Config.HasPostgres() {
		pool, err := pgxpool.New(ctx, c.Config.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}
		if err := persistence.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return err
		}
		c.Pool = pool
		c.TaskRepo = persistence.NewPostgresTaskRepository(pool)
		c.Logger.Info("using postgres storage")
		return nil
	}

	if dir := filepath.Dir(c.Config.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := persistence.OpenSQLite(c.Config.SQLitePath)
	if err != nil {
		return err
	}
	c.SQLiteDB = db
	c.TaskRepo = persistence.NewSQLiteTaskRepository(db)
	c.Logger.Info("using sqlite storage", "path", c.Config.SQLitePath)
	return nil
}

func (c *Container) initRedis(ctx context.Context) {
	if c.Config.RedisURL == "" {
		return
	}
	opts, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		c.Logger.Warn("invalid REDIS_URL, oracle cache disabled", "error", err)
		return
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		c.Logger.Warn("redis unreachable, oracle cache disabled", "error", err)
		_ = client.Close()
		return
	}
	c.RedisClient = client
}

func (c *Container) initEventBus() {
	if c.Config.RabbitMQURL != "" {
		pub, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
		if err == nil {
			c.EventPublisher = pub
			return
		}
		c.Logger.Warn("RabbitMQ unreachable, using in-process event bus", "error", err)
	}

	bus := eventbus.NewInProcessEventBus(c.Logger)
	bus.Subscribe(task.RoutingKeyPrefix+".#", taskEventLogger(c.Logger))
	c.EventPublisher = bus
}

func (c *Container) initInterpreter() {
	var completer interpretServices.Completer

	if c.Config.OracleAPIKey != "" {
		client := oracle.NewClient(oracle.ClientConfig{
			Endpoint: c.Config.OracleURL,
			APIKey:   c.Config.OracleAPIKey,
			Model:    c.Config.OracleModel,
			Timeout:  c.Config.OracleTimeout,
		}, c.Logger)

		if c.RedisClient != nil && c.Config.OracleCacheOn {
			completer = oracle.NewCachedCompleter(client, c.RedisClient, c.Config.OracleCacheTTL, c.Logger)
		} else {
			completer = client
		}
	} else {
		c.Logger.Info("no oracle API key configured, using local extraction only")
	}

	temporal := interpretServices.NewTemporalExtractor()
	extractor := interpretServices.NewFieldExtractor(completer, c.Logger)
	c.Interpreter = interpretServices.NewInterpreter(temporal, extractor, c.Logger,
		interpretServices.WithConfidenceFloor(c.Config.ConfidenceFloor),
	)
}

func (c *Container) initHandlers() {
	c.CreateTaskHandler = commands.NewCreateTaskHandler(c.TaskRepo, c.EventPublisher, c.Logger)
	c.CreateTaskFromTextHandler = commands.NewCreateTaskFromTextHandler(c.Interpreter, c.TaskRepo, c.EventPublisher, c.Logger)
	c.StartTaskHandler = commands.NewStartTaskHandler(c.TaskRepo, c.EventPublisher, c.Logger)
	c.CompleteTaskHandler = commands.NewCompleteTaskHandler(c.TaskRepo, c.EventPublisher, c.Logger)
	c.CancelTaskHandler = commands.NewCancelTaskHandler(c.TaskRepo, c.EventPublisher, c.Logger)

	c.ListTasksHandler = queries.NewListTasksHandler(c.TaskRepo)
	c.GetTaskHandler = queries.NewGetTaskHandler(c.TaskRepo)
}

// taskEventLogger is the local-mode notification sink: task lifecycle events
// land in the log instead of a broker.
func taskEventLogger(logger *slog.Logger) eventbus.Handler {
	return func(_ context.Context, env *eventbus.Envelope) error {
		logger.Info("task event",
			"routing_key", env.RoutingKey,
			"aggregate_id", env.AggregateID.String(),
		)
		return nil
	}
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("failed to close event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close redis client", "error", err)
		}
	}
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("failed to close sqlite database", "error", err)
		}
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}
