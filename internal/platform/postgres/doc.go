// Package postgres implements the run journal on PostgreSQL.
// It handles connection setup through the pgx database/sql driver, the
// embedded goose migrations that create the journal table, and the mapping
// between journal.Run values and database rows.
package postgres
