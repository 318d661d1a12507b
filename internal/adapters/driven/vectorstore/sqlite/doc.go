// Package sqlite provides a SQLite-backed implementation of the
// VectorStore driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. Embeddings are
// stored as little-endian float32 blobs alongside the chunk text, and
// queries run a brute-force cosine distance scan over all rows. That is
// linear in the number of chunks, which is fine for the corpus sizes
// this service targets.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory. Each migration is a pair of .up.sql and
// .down.sql files.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
