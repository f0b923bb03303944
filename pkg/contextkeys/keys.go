// Package contextkeys defines typed context keys shared by middleware and
// handlers, avoiding import cycles between them.
package contextkeys

import (
	"context"

	"github.com/datumhub/datumhub/pkg/registry"
)

// Key is the type for context keys owned by this package.
type Key string

// IdentityKey carries the authenticated identity of a request.
const IdentityKey Key = "identity"

// WithIdentity returns a context carrying an authenticated identity.
func WithIdentity(ctx context.Context, identity *registry.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// IdentityFrom extracts the authenticated identity, or nil when the request
// was not authenticated.
func IdentityFrom(ctx context.Context) *registry.Identity {
	identity, ok := ctx.Value(IdentityKey).(*registry.Identity)
	if !ok {
		return nil
	}
	return identity
}
