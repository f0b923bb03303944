package api

import (
	"net/http"
	"strings"

	"github.com/datumhub/datumhub/pkg/httputil"
)

// register handles POST /api/auth/register
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	user, err := s.authSvc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	httputil.WriteCreated(w, map[string]interface{}{
		"registered": true,
		"username":   user.Username,
	})
}

// issueToken handles POST /api/auth/token
func (s *Server) issueToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	cred, err := s.authSvc.IssueToken(r.Context(), req.Username, req.Password)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	httputil.WriteSuccess(w, cred)
}

// refreshToken handles POST /api/auth/refresh. The presented credential is
// read from the Authorization header like any other authenticated request.
func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	cred, err := s.authSvc.RefreshToken(r.Context(), token)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	httputil.WriteSuccess(w, cred)
}

// bearerToken extracts the bearer value from the Authorization header, or
// returns an empty string.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
