// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, so the pharmacy service works unchanged over
// PostgreSQL or SQLite.
package store
