// Package sqlite provides a SQLite implementation of the pharmacy store using
// sqlx over the pure-Go modernc.org/sqlite driver. It is meant for local
// development and tests; the schema is created in place rather than through
// goose migrations.
package sqlite
