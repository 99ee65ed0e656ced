// Package sqlite provides a SQLite-backed implementation of the record
// cache port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. The cache keeps
// one row per substance identity key with the raw record JSON plus
// first_seen and last_seen stamps, so exports can report when each
// substance entered the dataset.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.dod-prohibited/data/prohibited.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
