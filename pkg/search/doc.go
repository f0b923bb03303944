// Package search provides catalog queries and fuzzy name suggestions.
//
// # Overview
//
// This package implements the read side of the registry catalog: paginated
// listing, full-text search with an indexed and a fallback execution path, tag
// filtering, and close-match suggestions for misspelled package identifiers.
//
// # Dual-Path Queries
//
// When the SQLite FTS5 extension is available, free-text queries run against
// the packages_fts virtual table using a prefix MATCH expression and are
// ordered by rank. When it is not, or when a particular MATCH expression is
// rejected, the same request is served by a case-insensitive substring scan
// over the stored payloads. Callers cannot observe which path ran except
// through result ordering.
//
// # Query Syntax
//
// Free text, tokenized into prefix terms:
//
//	packages?q=climate+data
//
// Exact tag match (case-insensitive):
//
//	packages?tag=Climate
//
// Pagination:
//
//	packages?q=climate&limit=20&offset=40
//
// # Usage Example
//
//	svc := search.NewService(db, fts, logger, metrics)
//	resp, err := svc.Search(ctx, search.Request{Query: "precip", Limit: 10})
//
//	suggester := search.NewSuggester(store, metrics)
//	sugg, err := suggester.Suggest(ctx, "acme/wether/precip-daily", 5)
//
// # Related Packages
//
//   - pkg/registry: maintains the index rows this package queries
package search
