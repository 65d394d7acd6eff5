// Package sqlite provides a SQLite-based implementation of the catalog ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. It implements several store interfaces through a single database connection:
//
//   - FrameworkStore: the framework catalog, keyed by (name, internal type)
//   - WatermarkStore: the oracle pull watermark
//   - SchedulerStore: scheduled task state and history
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.artemis/data/catalog.db
//
// # Thread Safety
//
// All operations are thread-safe. Catalog upserts run in a transaction and the
// store uses database-level locking provided by SQLite in WAL mode.
package sqlite
