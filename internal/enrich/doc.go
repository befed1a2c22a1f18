// Package enrich drives batch metadata enrichment over the collection.
//
// It selects the records still missing detail fields, looks them up in
// fixed-size batches (concurrent within a batch, sequential across
// batches, with a pacing delay between batches so the metadata API is
// not hammered), and merges fetched details fill-only into each record.
// The caller persists the mutated collection once at the end.
package enrich
