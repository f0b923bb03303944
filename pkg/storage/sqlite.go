package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// schema is the normalized record store. The FTS index is created separately
// so its absence degrades search instead of failing startup.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS api_tokens (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	token      TEXT UNIQUE NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT (datetime('now')),
	expires_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS packages (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	package_id   TEXT NOT NULL,
	version      TEXT NOT NULL,
	owner_id     INTEGER NOT NULL REFERENCES users(id),
	data         TEXT NOT NULL,
	published_at TIMESTAMP NOT NULL DEFAULT (datetime('now')),
	UNIQUE(package_id, version)
);

CREATE INDEX IF NOT EXISTS idx_packages_id ON packages(package_id);
`

// ftsSchema is the derived search index, one document per package row,
// keyed by rowid = packages.id. Requires the FTS5 module.
const ftsSchema = `
CREATE VIRTUAL TABLE IF NOT EXISTS packages_fts USING fts5(
	package_id, title, description, tags, publisher_name
);
`

// Open opens (or creates) the SQLite database at path and applies the schema.
// The returned bool reports whether the FTS5 index is available; when the
// linked SQLite lacks FTS5 the registry falls back to substring-scan search.
func Open(ctx context.Context, path string) (*sql.DB, bool, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// between the record write and the index write.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, false, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, false, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, false, fmt.Errorf("failed to apply schema: %w", err)
	}

	fts := true
	if _, err := db.ExecContext(ctx, ftsSchema); err != nil {
		fts = false
	}

	return db, fts, nil
}
