package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datumhub/datumhub/pkg/registry"
	"github.com/datumhub/datumhub/pkg/storage"
)

func openTestService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	db, _, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(db, 0, nil), db
}

func TestRegister(t *testing.T) {
	svc, _ := openTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "longenough")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	// Duplicate usernames conflict.
	_, err = svc.Register(ctx, "alice", "anotherpassword")
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrConflict))
}

func TestRegisterPolicy(t *testing.T) {
	svc, _ := openTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Bad Username!", "longenough")
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrValidation))

	_, err = svc.Register(ctx, "alice", "short")
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrValidation))
}

func TestIssueTokenAndAuthenticate(t *testing.T) {
	svc, _ := openTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "longenough")
	require.NoError(t, err)

	cred, err := svc.IssueToken(ctx, "alice", "longenough")
	require.NoError(t, err)
	assert.Len(t, cred.Token, 64)
	assert.True(t, cred.ExpiresAt.After(cred.CreatedAt))

	identity, err := svc.Authenticate(ctx, cred.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, "alice", identity.Username)
}

func TestIssueTokenBadCredentials(t *testing.T) {
	svc, _ := openTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "longenough")
	require.NoError(t, err)

	// Wrong password and unknown user fail identically.
	_, err = svc.IssueToken(ctx, "alice", "wrong password")
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrUnauthenticated))

	_, err = svc.IssueToken(ctx, "nobody", "longenough")
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrUnauthenticated))
}

func TestAuthenticateRejectsUnknownAndEmpty(t *testing.T) {
	svc, _ := openTestService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "")
	assert.True(t, errors.Is(err, registry.ErrUnauthenticated))

	_, err = svc.Authenticate(ctx, "deadbeefdeadbeefdeadbeefdeadbeef")
	assert.True(t, errors.Is(err, registry.ErrUnauthenticated))
}

func TestAuthenticateExpiredToken(t *testing.T) {
	svc, db := openTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "longenough")
	require.NoError(t, err)
	cred, err := svc.IssueToken(ctx, "alice", "longenough")
	require.NoError(t, err)

	// Push the expiry into the past.
	_, err = db.Exec(`UPDATE api_tokens SET expires_at = datetime('now', '-1 hour') WHERE token = ?`, cred.Token)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, cred.Token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrUnauthenticated))
}

func TestRefreshTokenKeepsOldValid(t *testing.T) {
	svc, _ := openTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "longenough")
	require.NoError(t, err)
	first, err := svc.IssueToken(ctx, "alice", "longenough")
	require.NoError(t, err)

	second, err := svc.RefreshToken(ctx, first.Token)
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	// Both credentials resolve until the first lapses on its own.
	_, err = svc.Authenticate(ctx, first.Token)
	assert.NoError(t, err)
	_, err = svc.Authenticate(ctx, second.Token)
	assert.NoError(t, err)

	// Refreshing with garbage fails.
	_, err = svc.RefreshToken(ctx, "not-a-token")
	assert.True(t, errors.Is(err, registry.ErrUnauthenticated))
}

func TestPruneExpired(t *testing.T) {
	svc, db := openTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "longenough")
	require.NoError(t, err)
	stale, err := svc.IssueToken(ctx, "alice", "longenough")
	require.NoError(t, err)
	live, err := svc.IssueToken(ctx, "alice", "longenough")
	require.NoError(t, err)

	_, err = db.Exec(`UPDATE api_tokens SET expires_at = datetime('now', '-1 hour') WHERE token = ?`, stale.Token)
	require.NoError(t, err)

	pruned, err := svc.PruneExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	_, err = svc.Authenticate(ctx, live.Token)
	assert.NoError(t, err)

	// Nothing left to prune.
	pruned, err = svc.PruneExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, pruned)
}

func TestGetUser(t *testing.T) {
	svc, _ := openTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "longenough")
	require.NoError(t, err)

	user, err := svc.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.GetUser(ctx, "nobody")
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrNotFound))
}
