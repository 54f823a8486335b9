// Package testdb provides PostgreSQL helpers for integration tests.
//
// Tests using this package carry the integration build tag and need a
// reachable database in DATABASE_URL or MENTORSHIP_TEST_DB_URL:
//
//	//go:build integration
//
//	func TestSomething(t *testing.T) {
//		db := testdb.GetTestDBWithT(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			// every change is rolled back when fn returns
//		})
//	}
package testdb
