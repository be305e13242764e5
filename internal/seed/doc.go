// Package seed fills the pharmacy table with random records for local
// development and demos. All records of one run are written in a single
// transaction.
package seed
