package api

import (
	"net/http"
	"time"

	"github.com/datumhub/datumhub/pkg/httputil"
	"github.com/datumhub/datumhub/pkg/middleware"
	"github.com/datumhub/datumhub/pkg/registry"
)

// UserProfile is a user plus their published package versions.
type UserProfile struct {
	Username     string                    `json:"username"`
	JoinedAt     time.Time                 `json:"joined_at"`
	PackageCount int                       `json:"package_count"`
	Packages     []registry.PackageVersion `json:"packages"`
}

// getMe handles GET /api/v1/users/me
func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		httputil.WriteUnauthorized(w, "not authenticated")
		return
	}
	s.writeProfile(w, r, identity.Username)
}

// getUser handles GET /api/v1/users/{username}
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	vars := httputil.GetPathVars(r)
	s.writeProfile(w, r, vars["username"])
}

func (s *Server) writeProfile(w http.ResponseWriter, r *http.Request, username string) {
	user, err := s.authSvc.GetUser(r.Context(), username)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	packages, err := s.store.ListByOwner(r.Context(), username)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	httputil.WriteSuccess(w, UserProfile{
		Username:     user.Username,
		JoinedAt:     user.CreatedAt,
		PackageCount: len(packages),
		Packages:     packages,
	})
}
