// Package testdb provides helpers for tests that need a real PostgreSQL
// database.
//
// Tests obtain a migrated connection with GetTestDBWithT, which skips the
// test when no database URL is configured, and isolate their writes with
// WithTx, which rolls the transaction back when the test function returns:
//
//	func TestTaskStore(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        tasks := postgres.NewPostgresTaskStore(tx, nil)
//	        // ...
//	    })
//	}
//
// The database URL is read from COWORK_TEST_DB_URL, falling back to
// DATABASE_URL.
package testdb
