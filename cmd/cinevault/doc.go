// Command cinevault manages a personal movie collection: records live in a
// local SQLite database, metadata comes from TMDB, and CSV files move the
// collection in and out.
package main
