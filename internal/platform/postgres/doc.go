// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx stdlib driver. Every store accepts a store.DBTX,
// so it can run against the connection pool or inside a transaction.
//
// The schema lives in migrations/ and is embedded into the binary; apply it
// with RunMigrations.
package postgres
