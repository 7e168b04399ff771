package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/nutri-api/internal/config"
	"github.com/phrazzld/nutri-api/internal/platform/postgres"
)

// setupAppDatabase connects to the run journal database.
func setupAppDatabase(ctx context.Context, cfg *config.Config, l *slog.Logger) (*sql.DB, error) {
	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	l.Info("database connection established", "url", postgres.MaskURL(cfg.Database.URL))
	return db, nil
}
