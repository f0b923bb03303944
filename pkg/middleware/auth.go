package middleware

import (
	"net/http"
	"strings"

	"github.com/datumhub/datumhub/pkg/auth"
	"github.com/datumhub/datumhub/pkg/contextkeys"
	"github.com/datumhub/datumhub/pkg/httputil"
	"github.com/datumhub/datumhub/pkg/registry"
)

// AuthMiddleware resolves bearer credentials to identities
type AuthMiddleware struct {
	service  *auth.Service
	optional bool // If true, allow requests without auth
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(service *auth.Service, optional bool) *AuthMiddleware {
	return &AuthMiddleware{
		service:  service,
		optional: optional,
	}
}

// Handler wraps an HTTP handler with authentication. The reason a credential
// is rejected (expired vs never issued) is not disclosed.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Extract token from Authorization header
		// Format: "Bearer <token>"
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			if m.optional {
				next.ServeHTTP(w, r)
				return
			}
			httputil.WriteUnauthorized(w, "not authenticated")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.WriteUnauthorized(w, "invalid authorization header format")
			return
		}

		identity, err := m.service.Authenticate(r.Context(), parts[1])
		if err != nil {
			httputil.WriteUnauthorized(w, "invalid or expired token")
			return
		}

		ctx := contextkeys.WithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentity extracts the authenticated identity from a request
func GetIdentity(r *http.Request) *registry.Identity {
	return contextkeys.IdentityFrom(r.Context())
}
