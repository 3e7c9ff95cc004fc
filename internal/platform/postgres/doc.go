// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
// It handles the details of database connections, query execution, and data
// mapping between domain entities and database records.
//
// Schema migrations are embedded and applied with goose through Migrate.
// Tests that need a live database carry the integration build tag and read
// CADENCE_TEST_DATABASE_URL.
package postgres
