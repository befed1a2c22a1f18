// Package tmdb provides the minimal TMDB API client used during metadata
// enrichment.
//
// It authenticates requests and exposes movie search plus movie detail
// retrieval with credits appended. Responses are strongly typed so the
// lookup layer can extract poster, director, year, and country fields.
// Options allow tests to supply custom HTTP clients without modifying
// production code.
package tmdb
