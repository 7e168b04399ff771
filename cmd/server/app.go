package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/nutri-api/internal/config"
	"github.com/phrazzld/nutri-api/internal/flow"
	"github.com/phrazzld/nutri-api/internal/generation"
	"github.com/phrazzld/nutri-api/internal/journal"
	"github.com/phrazzld/nutri-api/internal/nutrition"
	"github.com/phrazzld/nutri-api/internal/platform/gemini"
	"github.com/phrazzld/nutri-api/internal/platform/logger"
	"github.com/phrazzld/nutri-api/internal/platform/postgres"
)

// application holds the wired dependencies shared by the commands.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	db       *sql.DB
	runStore journal.Store
	service  *nutrition.Service

	shutdownTracing func(context.Context) error
}

// appOption customizes newApplication; tests use it to replace the model.
type appOption func(*appDeps)

type appDeps struct {
	invoker generation.Invoker
	store   journal.Store
}

func withInvoker(inv generation.Invoker) appOption {
	return func(d *appDeps) { d.invoker = inv }
}

func withRunStore(s journal.Store) appOption {
	return func(d *appDeps) { d.store = s }
}

// loadAppConfig loads the configuration and sets up a logger writing to logOut.
func loadAppConfig(logOut io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.SetupWithWriter(cfg.Server, logOut)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"model", cfg.LLM.ModelName,
		"journal_enabled", cfg.JournalEnabled(),
		"tracing_enabled", cfg.Tracing.OTLPEndpoint != "")
	return cfg, l, nil
}

// newApplication wires tracing, the run journal, the model invoker and the
// flow registry.
func newApplication(ctx context.Context, cfg *config.Config, l *slog.Logger, opts ...appOption) (*application, error) {
	deps := &appDeps{}
	for _, opt := range opts {
		opt(deps)
	}

	app := &application{config: cfg, logger: l}

	shutdown, err := setupTracing(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}
	app.shutdownTracing = shutdown

	switch {
	case deps.store != nil:
		app.runStore = deps.store
	case cfg.JournalEnabled():
		db, err := setupAppDatabase(ctx, cfg, l)
		if err != nil {
			app.cleanup()
			return nil, err
		}
		app.db = db
		app.runStore = postgres.NewRunStore(db)
	}

	invoker := deps.invoker
	if invoker == nil {
		gi, err := gemini.NewInvoker(ctx, l, cfg.LLM)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to create model invoker: %w", err)
		}
		invoker = gi
	}

	var flowOpts []flow.Option
	if app.runStore != nil {
		flowOpts = append(flowOpts, flow.WithRecorder(app.runStore))
	}
	registry, err := nutrition.NewRegistry(invoker, l, flowOpts...)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to build flows: %w", err)
	}
	app.service = nutrition.NewService(registry)

	l.Info("application initialized", "flows", len(registry.Names()))
	return app, nil
}

// cleanup releases the database and flushes traces.
func (app *application) cleanup() {
	if app.shutdownTracing != nil {
		if err := app.shutdownTracing(context.Background()); err != nil {
			app.logger.Error("failed to shut down tracing", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
