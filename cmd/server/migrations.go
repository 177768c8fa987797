package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/milonlex/milon-api/internal/platform/database"
	"github.com/milonlex/milon-api/migrations"
)

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level without exiting; the migration error is
// returned to main, which owns the process exit.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// runMigrations applies the embedded goose track for the detected dialect.
// All records of one run share a correlation id so a failed step can be
// traced through the JSON log.
func runMigrations(db *sql.DB, dialect database.Dialect, log *slog.Logger) error {
	correlationID := uuid.New().String()
	migrationLogger := log.With(
		"correlation_id", correlationID,
		"component", "migrations",
		"dialect", dialect.String(),
	)

	start := time.Now()
	migrationLogger.Info("Applying database migrations")

	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(migrations.FS)
	goose.SetTableName("schema_migrations")

	if err := goose.SetDialect(dialect.String()); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	dir := "postgres"
	if dialect == database.DialectSQLite {
		dir = "sqlite"
	}

	if err := goose.Up(db, dir); err != nil {
		migrationLogger.Error("Migration failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	migrationLogger.Info("Migrations applied",
		"version", version,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}
