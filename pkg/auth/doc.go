// Package auth provides user accounts and bearer-token credentials.
//
// # Overview
//
// This package implements registration, password verification, and opaque
// bearer tokens with a fixed expiry horizon. Passwords are hashed with
// argon2id and stored as "saltHex:keyHex"; tokens are 32 random bytes in hex,
// stored verbatim and compared exactly.
//
// # Credential Flow
//
// Register, then trade the password for a token:
//
//	svc := auth.NewService(db, auth.DefaultTokenTTL, logger)
//	user, err := svc.Register(ctx, "alice", "correct horse battery")
//	cred, err := svc.IssueToken(ctx, "alice", "correct horse battery")
//
// Resolve a presented token on each request:
//
//	identity, err := svc.Authenticate(ctx, bearer)
//
// A valid token can be traded for a fresh one without the password; the old
// token stays valid until its own expiry:
//
//	cred, err := svc.RefreshToken(ctx, bearer)
//
// Expired rows are removed by the periodic sweep:
//
//	pruned, err := svc.PruneExpired(ctx)
//
// # Related Packages
//
//   - pkg/middleware: HTTP bearer extraction and request identity
//   - pkg/registry: consumes the resolved Identity for ownership checks
package auth
