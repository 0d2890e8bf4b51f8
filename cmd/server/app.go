package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/products-api/internal/config"
	"github.com/phrazzld/products-api/internal/domain"
	"github.com/phrazzld/products-api/internal/events"
	"github.com/phrazzld/products-api/internal/platform/postgres"
	"github.com/phrazzld/products-api/internal/redact"
	"github.com/phrazzld/products-api/internal/service/auth"
	"github.com/phrazzld/products-api/internal/store"
	"github.com/phrazzld/products-api/internal/store/memory"
	"github.com/phrazzld/products-api/internal/task"
)

// hydrateTimeout bounds loading the catalog from the mirror at startup.
const hydrateTimeout = 10 * time.Second

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	db      *sql.DB
	started time.Time

	products *memory.ProductStore
	keys     *auth.KeyRegistry
	mirror   store.ProductMirror

	// Mirror writes, only wired when a database is available.
	eventEmitter *events.InMemoryEventEmitter
	taskRunner   *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies initialized.
// db may be nil, in which case nothing is persisted.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:       cfg,
		logger:       logger,
		db:           db,
		started:      time.Now(),
		mirror:       store.NoopMirror{},
		eventEmitter: events.NewInMemoryEventEmitter(logger),
	}

	if db != nil {
		app.mirror = postgres.NewProductMirror(db, logger)
		app.taskRunner = setupTaskRunner(cfg, logger)
		app.eventEmitter.RegisterHandler(
			task.NewMirrorEventHandler(app.mirror, app.taskRunner, logger))
	}

	app.products = memory.NewProductStore(logger, memory.WithEmitter(app.eventEmitter))
	app.keys = auth.NewKeyRegistry(logger)

	if err := app.hydrate(ctx); err != nil {
		app.cleanup(ctx)
		return nil, err
	}

	logger.Info("Application initialized successfully",
		"products", app.products.Len(),
		"persistent", db != nil)
	return app, nil
}

// hydrate loads the catalog from the mirror, seeding the sample products
// when the mirror is empty. A failing mirror is fatal only when the database
// is required; otherwise the catalog starts from the samples in memory.
func (app *application) hydrate(ctx context.Context) error {
	var seed []domain.ProductInput
	if app.config.Catalog.SeedSamples {
		seed = memory.SampleProducts()
	}

	hydrateCtx, cancel := context.WithTimeout(ctx, hydrateTimeout)
	defer cancel()

	result, err := app.products.Hydrate(hydrateCtx, app.mirror, seed)
	if err == nil {
		app.logger.Info("Catalog hydrated", "loaded", result.Loaded, "seeded", result.Seeded)
		return nil
	}
	if app.config.Database.Required {
		return fmt.Errorf("failed to hydrate catalog: %w", err)
	}

	app.logger.Warn("Failed to hydrate catalog from the database", "error", redact.Error(err))
	if app.products.Len() > 0 {
		return nil
	}
	result, err = app.products.Hydrate(ctx, store.NoopMirror{}, seed)
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	app.logger.Info("Catalog seeded in memory", "seeded", result.Seeded)
	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// setupTaskRunner initializes and starts the background mirror writer.
func setupTaskRunner(cfg *config.Config, logger *slog.Logger) *task.TaskRunner {
	runnerConfig := task.DefaultTaskRunnerConfig()
	runnerConfig.QueueSize = cfg.Mirror.QueueSize
	runnerConfig.WorkerCount = cfg.Mirror.WorkerCount

	runner := task.NewTaskRunner(runnerConfig, logger)
	runner.SetErrorHandler(func(t task.Task, err error) {
		logger.Error("mirror write failed",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"error", redact.Error(err))
	})
	runner.Start()
	return runner
}

// cleanup drains pending mirror writes and closes the database.
func (app *application) cleanup(ctx context.Context) {
	if app.taskRunner != nil {
		if err := app.taskRunner.Stop(ctx); err != nil {
			app.logger.Error("Error stopping task runner", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
