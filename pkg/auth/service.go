package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/datumhub/datumhub/pkg/observability"
	"github.com/datumhub/datumhub/pkg/registry"
)

// DefaultTokenTTL is the credential lifetime when none is configured.
const DefaultTokenTTL = 30 * 24 * time.Hour

// Service is the identity store and authorization guard: user registration,
// credential issuance/refresh, and bearer-token resolution.
type Service struct {
	db     *sql.DB
	ttl    time.Duration
	logger *observability.Logger
}

// NewService creates an auth service. ttl <= 0 selects DefaultTokenTTL.
func NewService(db *sql.DB, ttl time.Duration, logger *observability.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Service{db: db, ttl: ttl, logger: logger}
}

// Register creates a new user account. The username and password are
// validated against the fixed policy before any mutation; the password is
// stored only as a salted Argon2id hash.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	if err := registry.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := registry.ValidatePassword(password); err != nil {
		return nil, err
	}

	var existing int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = ?`, username).Scan(&existing)
	if err == nil {
		return nil, fmt.Errorf("username %q %w", username, registry.ErrConflict)
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`, username, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve new user id: %w", err)
	}

	s.logger.WithField("username", username).Info("registered user")
	return s.userByID(ctx, id)
}

// IssueToken exchanges a username and password for a fresh credential with a
// fixed expiry horizon. Other live credentials for the user stay valid.
func (s *Service) IssueToken(ctx context.Context, username, password string) (*Credential, error) {
	var (
		userID int64
		hash   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, password_hash FROM users WHERE username = ?`, username).Scan(&userID, &hash)
	if err == sql.ErrNoRows || (err == nil && !VerifyPassword(password, hash)) {
		return nil, fmt.Errorf("invalid credentials: %w", registry.ErrUnauthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return s.insertToken(ctx, userID)
}

// RefreshToken issues a new credential for the identity bound to a
// currently-valid bearer token. The presented credential is not revoked; it
// lapses at its original expiry.
func (s *Service) RefreshToken(ctx context.Context, token string) (*Credential, error) {
	identity, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.insertToken(ctx, identity.UserID)
}

// Authenticate resolves a bearer token to an identity. A missing token, an
// unknown token, and an expired token all fail the same way; the caller
// cannot distinguish them.
func (s *Service) Authenticate(ctx context.Context, token string) (*registry.Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("no token supplied: %w", registry.ErrUnauthenticated)
	}
	var identity registry.Identity
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username
		FROM api_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token = ? AND t.expires_at > datetime('now')
	`, token).Scan(&identity.UserID, &identity.Username)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("invalid or expired token: %w", registry.ErrUnauthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	return &identity, nil
}

// GetUser returns a user by username.
func (s *Service) GetUser(ctx context.Context, username string) (*User, error) {
	user := &User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, created_at FROM users WHERE username = ?`, username,
	).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q %w", username, registry.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %q: %w", username, err)
	}
	return user, nil
}

// CountUsers returns the number of registered accounts.
func (s *Service) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// PruneExpired physically deletes credentials whose expiry has passed.
// Expiry itself is logical; this is periodic housekeeping only.
func (s *Service) PruneExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM api_tokens WHERE expires_at <= datetime('now')`)
	if err != nil {
		return 0, fmt.Errorf("failed to prune expired tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned tokens: %w", err)
	}
	if n > 0 {
		s.logger.WithField("count", n).Info("pruned expired tokens")
	}
	return n, nil
}

// insertToken creates and persists a fresh credential for a user. The expiry
// is computed inside SQLite so it compares cleanly against datetime('now').
func (s *Service) insertToken(ctx context.Context, userID int64) (*Credential, error) {
	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	ttlModifier := fmt.Sprintf("+%d seconds", int64(s.ttl.Seconds()))
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO api_tokens (user_id, token, expires_at)
		VALUES (?, ?, datetime('now', ?))
	`, userID, token, ttlModifier)
	if err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token row: %w", err)
	}

	cred := &Credential{Token: token}
	err = s.db.QueryRowContext(ctx,
		`SELECT created_at, expires_at FROM api_tokens WHERE id = ?`, rowID,
	).Scan(&cred.CreatedAt, &cred.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load token metadata: %w", err)
	}
	return cred, nil
}

func (s *Service) userByID(ctx context.Context, id int64) (*User, error) {
	user := &User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, created_at FROM users WHERE id = ?`, id,
	).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return user, nil
}
