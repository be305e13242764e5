package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/pharmacy-api/internal/config"
	"github.com/phrazzld/pharmacy-api/internal/platform/postgres"
	"github.com/phrazzld/pharmacy-api/internal/platform/sqlite"
	"github.com/phrazzld/pharmacy-api/internal/redact"
	"github.com/pressly/goose/v3"
)

// Supported migrate subcommands; each maps to the goose command of the same name.
const (
	migrateUp      = "up"
	migrateDown    = "down"
	migrateStatus  = "status"
	migrateVersion = "version"
)

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages to slog.Error
// Note: Unlike the standard Fatalf behavior, this does NOT call os.Exit
// to allow main.go to handle application exit consistently
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// runMigrations executes a goose command against the configured database.
// SQLite has a single idempotent schema, so only "up" applies to it.
func runMigrations(ctx context.Context, cfg *config.Config, command string) error {
	switch command {
	case migrateUp, migrateDown, migrateStatus, migrateVersion:
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}

	correlationID := uuid.New().String()
	migrationLogger := slog.Default().With(
		"correlation_id", correlationID,
		"component", "migrations",
		"command", command,
	)

	startTime := time.Now()
	migrationLogger.Info("Starting migration operation",
		"driver", cfg.Database.Driver,
		"url", redact.DatabaseURL(cfg.Database.URL))

	var err error
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		err = runSQLiteMigrations(ctx, cfg.Database.URL, command)
	case config.DriverPostgres:
		err = runPostgresMigrations(ctx, cfg.Database, command, migrationLogger)
	default:
		err = fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	migrationLogger.Info("Migration operation completed",
		"duration_ms", time.Since(startTime).Milliseconds(),
		"success", err == nil)
	return err
}

func runPostgresMigrations(
	ctx context.Context,
	cfg config.DatabaseConfig,
	command string,
	logger *slog.Logger,
) error {
	db, err := openPostgres(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
		}
	}()

	return gooseRun(ctx, db, command, logger)
}

// gooseRun configures goose for the embedded migrations and runs command.
func gooseRun(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	goose.SetBaseFS(postgres.Migrations)
	goose.SetTableName(postgres.MigrationsTable)
	goose.SetLogger(&slogGooseLogger{logger: logger})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, postgres.MigrationsDir); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}
	return nil
}

func runSQLiteMigrations(ctx context.Context, dsn, command string) error {
	if command != migrateUp {
		return fmt.Errorf("migrate %s is not supported for sqlite", command)
	}

	db, err := sqlite.Open(ctx, dsn)
	if err != nil {
		return err
	}
	return db.Close()
}
