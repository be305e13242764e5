package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/pharmacy-api/internal/config"
	"github.com/phrazzld/pharmacy-api/internal/seed"
	"github.com/phrazzld/pharmacy-api/internal/service"
	"github.com/phrazzld/pharmacy-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	pharmacyStore   store.PharmacyStore
	pharmacyService service.PharmacyService
}

// newApplication opens the configured database and wires the store and
// service on top of it.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, pharmacyStore, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &application{
		config:        cfg,
		logger:        logger,
		db:            db,
		pharmacyStore: pharmacyStore,
	}

	app.pharmacyService, err = service.NewPharmacyService(
		pharmacyStore,
		logger,
		service.WithPageSizes(cfg.Pagination.DefaultPageSize, cfg.Pagination.MaxPageSize),
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create pharmacy service: %w", err)
	}

	return app, nil
}

// seed inserts count random pharmacies and returns how many were written.
func (app *application) seed(ctx context.Context, count int) (int, error) {
	created, err := seed.New(app.db, app.pharmacyStore, app.logger).Seed(ctx, count)
	if err != nil {
		return 0, fmt.Errorf("failed to seed pharmacies: %w", err)
	}
	return len(created), nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
