package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/pharmacy-api/internal/config"
	"github.com/phrazzld/pharmacy-api/internal/platform/postgres"
	"github.com/phrazzld/pharmacy-api/internal/platform/sqlite"
	"github.com/phrazzld/pharmacy-api/internal/redact"
	"github.com/phrazzld/pharmacy-api/internal/store"
)

// pingTimeout bounds the connectivity check at startup.
const pingTimeout = 5 * time.Second

// setupAppDatabase opens the database selected by cfg.Database.Driver and
// returns it together with the matching pharmacy store.
func setupAppDatabase(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*sql.DB, store.PharmacyStore, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		logger.Info("Database connection established", "driver", config.DriverSQLite)
		return db.DB, sqlite.NewSQLitePharmacyStore(db, logger), nil

	case config.DriverPostgres:
		db, err := openPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Database connection established",
			"driver", config.DriverPostgres,
			"url", redact.DatabaseURL(cfg.Database.URL))
		return db, postgres.NewPostgresPharmacyStore(db, logger), nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// openPostgres opens a pgx-backed pool with the configured limits and pings it.
func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
