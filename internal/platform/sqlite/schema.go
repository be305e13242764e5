package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DriverName is the database/sql driver name registered by modernc.org/sqlite.
const DriverName = "sqlite"

// schema mirrors the PostgreSQL table. The CHECK constraints reproduce the
// range of NUMERIC(4,2) and NUMERIC(5,2).
var schema = []string{
	`CREATE TABLE IF NOT EXISTS pharmacies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		latitude REAL NOT NULL CHECK (latitude > -100 AND latitude < 100),
		longitude REAL NOT NULL CHECK (longitude > -1000 AND longitude < 1000),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

// Open connects to the SQLite database named by dsn and creates the schema.
// A single connection is used so that ":memory:" databases are shared by
// every query.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates any missing tables. It is safe to run repeatedly.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite migration failed: %w", err)
		}
	}
	return nil
}
