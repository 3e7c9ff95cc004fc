package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/config"
	"github.com/phrazzld/cadence-api/internal/domain/schedule"
	"github.com/phrazzld/cadence-api/internal/events"
	"github.com/phrazzld/cadence-api/internal/jobs"
	"github.com/phrazzld/cadence-api/internal/platform/postgres"
	"github.com/phrazzld/cadence-api/internal/service"
	"github.com/phrazzld/cadence-api/internal/service/auth"
	"github.com/phrazzld/cadence-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore     store.UserStore
	taskStore     store.TaskStore
	settingsStore store.SettingsStore
	jobStore      store.JobStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	userService     service.UserService
	taskService     service.TaskService
	settingsService service.SettingsService
	scheduleService service.ScheduleService

	eventEmitter *events.InMemoryEventEmitter
	jobRunner    *jobs.Runner
	sweeper      *jobs.Sweeper
}

// newApplication wires every dependency. The job runner is started here
// so that jobs left over from a previous run are recovered before the
// first request arrives.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.settingsStore = postgres.NewPostgresSettingsStore(db, logger)
	app.jobStore = postgres.NewPostgresJobStore(db, logger)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.buildServices(cfg, logger)

	if err := app.setupJobs(ctx); err != nil {
		return nil, err
	}

	logger.Info("application initialized successfully")
	return app, nil
}

func (app *application) buildServices(cfg *config.Config, logger *slog.Logger) {
	loc := cfg.Scheduler.Location()
	engine := schedule.NewServiceWithParams(
		schedule.NewParams(schedule.ParamsConfig{LookAheadDays: cfg.Scheduler.LookAheadDays}),
		loc,
	)

	app.userService = service.NewUserService(app.userStore, app.settingsStore, app.db, logger)
	app.taskService = service.NewTaskService(app.taskStore, app.db, app.eventEmitter, logger)
	app.settingsService = service.NewSettingsService(app.settingsStore, app.eventEmitter, logger)
	app.scheduleService = service.NewScheduleService(service.ScheduleServiceConfig{
		Users:    app.userStore,
		Tasks:    app.taskStore,
		Settings: app.settingsStore,
		DB:       app.db,
		Engine:   engine,
		LockUser: func(ctx context.Context, tx *sql.Tx, userID uuid.UUID) error {
			return postgres.LockUser(ctx, tx, userID)
		},
		DefaultLocation: loc,
		Logger:          logger,
	})
}

// setupJobs starts the background runner, routes schedule.requested
// events to it and schedules the nightly sweep.
func (app *application) setupJobs(ctx context.Context) error {
	factory := jobs.NewRescheduleJobFactory(app.scheduleService)
	registry := jobs.NewRegistry()
	registry.Register(jobs.TypeRescheduleUser, factory.Build)

	app.jobRunner = jobs.NewRunner(app.jobStore, registry, jobs.RunnerConfig{
		QueueSize:   app.config.Jobs.QueueSize,
		WorkerCount: app.config.Jobs.WorkerCount,
		StuckJobAge: time.Duration(app.config.Jobs.StuckJobAgeMinutes) * time.Minute,
	}, app.logger)

	if err := app.jobRunner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start job runner: %w", err)
	}

	app.eventEmitter.RegisterHandler(
		jobs.NewScheduleRequestedHandler(factory, app.jobRunner, app.logger),
		events.TypeScheduleRequested,
	)

	if spec := app.config.Scheduler.NightlyCron; spec != "" {
		sweeper, err := jobs.NewSweeper(spec, app.config.Scheduler.Location(),
			app.userStore, factory, app.jobRunner, app.logger)
		if err != nil {
			app.jobRunner.Stop()
			return err
		}
		app.sweeper = sweeper
		app.sweeper.Start()
	}

	return nil
}

// Run serves HTTP until ctx is canceled, then shuts down.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.sweeper != nil {
		app.sweeper.Stop()
	}

	if app.jobRunner != nil {
		app.jobRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
