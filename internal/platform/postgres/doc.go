// Package postgres provides the PostgreSQL implementation of the pharmacy
// store defined in internal/store, along with the embedded goose migrations
// that create its schema. Coordinates are stored as NUMERIC and read back as
// double precision; distances are computed in SQL.
package postgres
