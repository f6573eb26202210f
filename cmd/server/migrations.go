package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/phrazzld/tasklist-api/internal/migrations"
)

// runMigrations applies any pending embedded schema migrations against the
// provided database connection. It is called at startup before the HTTP
// server begins accepting requests.
func runMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	migrationLogger := logger.With("component", "migrations")

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	startTime := time.Now()
	migrationLogger.Info("Applying pending migrations")

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		migrationLogger.Warn("Failed to read migration version after apply", "error", err)
	} else {
		migrationLogger.Info("Migrations applied",
			"version", version,
			"duration_ms", time.Since(startTime).Milliseconds())
	}

	return nil
}
