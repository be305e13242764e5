// Package testdb provides utilities for database integration tests.
//
// Tests run inside a transaction that is rolled back when the test completes,
// so they can share one database without cleanup:
//
//	func TestMyFeature(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t) // skips when no database is configured
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        s := postgres.NewPostgresPharmacyStore(tx, nil)
//	        // ...
//	    })
//	}
//
// The database URL is read from DATABASE_URL, falling back to
// PHARMACY_TEST_DB_URL. The schema is created with the embedded goose
// migrations from internal/platform/postgres.
package testdb
