// Package app wires the repository, event bus, worker pool, and services
// into one application container.
package app

import (
	"context"

	"github.com/tarea-pm/tarea/internal/api"
	"github.com/tarea-pm/tarea/internal/auth"
	"github.com/tarea-pm/tarea/internal/config"
	"github.com/tarea-pm/tarea/internal/database"
	"github.com/tarea-pm/tarea/internal/events"
	analyticsservice "github.com/tarea-pm/tarea/internal/services/analytics"
	boardservice "github.com/tarea-pm/tarea/internal/services/board"
	notificationservice "github.com/tarea-pm/tarea/internal/services/notification"
	projectservice "github.com/tarea-pm/tarea/internal/services/project"
	taskservice "github.com/tarea-pm/tarea/internal/services/task"
	userservice "github.com/tarea-pm/tarea/internal/services/user"
	worklogservice "github.com/tarea-pm/tarea/internal/services/worklog"
	"github.com/tarea-pm/tarea/internal/worker"
)

// App holds all application services and provides dependency injection.
type App struct {
	cfg       *config.Config
	db        *database.DB
	repo      *database.Repository
	bus       *events.Bus
	pool      *worker.Pool
	scheduler *worker.Scheduler

	Issuer   *auth.Issuer
	Services api.Services
}

// New opens the database, runs migrations, and initializes every service.
// The notification worker pool is started immediately.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	repo := database.NewRepository(db)
	bus := events.NewBus()
	issuer := auth.NewIssuer(cfg.Auth)

	pool := worker.NewPool(repo, bus, 0)
	pool.Start(ctx)

	return &App{
		cfg:       cfg,
		db:        db,
		repo:      repo,
		bus:       bus,
		pool:      pool,
		scheduler: worker.NewScheduler(repo, bus, 0),
		Issuer:    issuer,
		Services: api.Services{
			Users:         userservice.NewService(repo, issuer),
			Projects:      projectservice.NewService(repo, bus),
			Boards:        boardservice.NewService(repo),
			Tasks:         taskservice.NewService(repo, bus),
			WorkLogs:      worklogservice.NewService(repo),
			Notifications: notificationservice.NewService(repo),
			Analytics:     analyticsservice.NewService(repo),
		},
	}, nil
}

// Repo returns the underlying repository for direct database access
func (a *App) Repo() *database.Repository {
	return a.repo
}

// StartScheduler begins periodic due-soon reminder sweeps. Long-running
// commands call this; one-shot commands skip it.
func (a *App) StartScheduler(ctx context.Context) {
	a.scheduler.Start(ctx)
}

// Close drains the worker pool and closes the database
func (a *App) Close() error {
	a.scheduler.Stop()
	a.bus.Close()
	a.pool.Wait()
	return a.db.Close()
}
