package auth

import "time"

// User is a registered identity. Usernames are immutable and
// lowercase-constrained; users are never deleted.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Credential is an opaque bearer token bound to one user with a fixed
// expiry. It becomes invalid once the expiry passes; there is no physical
// revocation path. Multiple concurrent live credentials per user are allowed.
type Credential struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
