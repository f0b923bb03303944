// Package storage opens the SQLite database and applies the schema.
//
// Open also probes for the FTS5 extension and reports whether the derived
// search index can be maintained; callers thread the result through the
// store and search services so the fallback path engages automatically.
package storage
