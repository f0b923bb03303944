// Package registry implements the versioned dataset package store.
//
// # Overview
//
// This package owns the system of record for published dataset packages and the
// derived full-text index over them. A package version is an immutable JSON
// payload keyed by (package_id, version); the Store provides the mutation and
// retrieval operations, and keeps the index row for each record in the same
// transaction as the record itself.
//
// # Identifiers
//
// A package identifier has exactly three lowercase slash-separated segments:
//
//	publisher/namespace/dataset
//
// The first segment must equal the username of the publishing user. Identifier
// and payload validation lives in validate.go; failures carry ErrValidation.
//
// # Usage Example
//
// Publish and retrieve:
//
//	store := registry.NewStore(db, fts, logger)
//	pv, err := store.Publish(ctx, &registry.Package{
//		ID:      "acme/weather/precip-daily",
//		Version: "1.2.0",
//		Title:   "Daily precipitation",
//	}, caller, false)
//
//	latest, err := store.GetLatest(ctx, "acme/weather/precip-daily")
//	versions, err := store.ListVersions(ctx, "acme/weather/precip-daily")
//
// Rebuild missing index rows after a crash or an index-less period:
//
//	n, err := store.Backfill(ctx)
//
// # Error Kinds
//
// Operations return sentinel errors matched with errors.Is:
//
//	ErrNotFound        - no such package/version
//	ErrConflict        - version already exists and force was not set
//	ErrForbidden       - caller does not own the record
//	ErrUnauthenticated - no valid credential presented
//	ErrValidation      - malformed identifier or payload
//
// # Related Packages
//
//   - pkg/storage: opens the SQLite database and applies the schema
//   - pkg/search: queries the index this package maintains
//   - pkg/auth: resolves bearer tokens to the Identity passed to mutations
package registry
