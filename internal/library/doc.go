// Package library is the service layer over the collection: adding,
// editing, and removing records, CSV import and export, batch enrichment,
// and TMDB credential management. Commands call into it; it owns the
// load-mutate-save cycle against the store and the locking around long
// mutations.
package library
