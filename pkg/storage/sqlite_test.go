package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAppliesSchema(t *testing.T) {
	db, _, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"users", "api_tokens", "packages"} {
		var name string
		err := db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}

	// The unique constraint on (package_id, version) is live.
	_, err = db.Exec(`INSERT INTO users (username, password_hash) VALUES ('alice', 'x')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO packages (package_id, version, owner_id, data) VALUES ('a/b/c', '1', 1, '{}')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO packages (package_id, version, owner_id, data) VALUES ('a/b/c', '1', 1, '{}')`)
	assert.Error(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/registry.db"

	db, _, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (username, password_hash) VALUES ('alice', 'x')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening an existing database keeps its data.
	db, _, err = Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestOpenReportsFTSConsistently(t *testing.T) {
	ctx := context.Background()
	db, fts, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	// When FTS5 is reported available, the virtual table must be queryable.
	if fts {
		var count int
		err := db.QueryRow(`SELECT COUNT(*) FROM packages_fts`).Scan(&count)
		assert.NoError(t, err)
	}
}
