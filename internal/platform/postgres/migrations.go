package postgres

import "embed"

// Migrations holds the goose SQL migrations for the PostgreSQL schema.
// Use goose.SetBaseFS(Migrations) and MigrationsDir as the directory argument.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that holds the SQL files.
const MigrationsDir = "migrations"

// MigrationsTable is the goose version table name.
const MigrationsTable = "schema_migrations"
