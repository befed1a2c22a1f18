// Package collection defines the movie record model and the pure merge and
// dedup rules that govern how imported and fetched data enters the store.
package collection
