// Package lookup turns a movie title into the detail fields the collection
// stores: poster URL, director, release year, and production country.
//
// Lookup never returns an error. Network failures, non-matches, and partial
// payloads all degrade to absent fields so batch enrichment can keep moving;
// problems are logged, not propagated.
package lookup
