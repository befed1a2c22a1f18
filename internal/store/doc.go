// Package store persists the collection in a SQLite-backed key/value
// table, mirroring the single-document shape of the original browser
// storage: the whole record list lives under one key as JSON, the TMDB
// credential under another.
//
// Writes are compare-and-swap on a per-key version counter so a stale
// snapshot can never clobber a newer one, and long mutations (import,
// batch enrichment) take a file lock beside the database so two CLI
// invocations do not interleave.
package store
