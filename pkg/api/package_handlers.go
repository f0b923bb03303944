package api

import (
	"net/http"

	"github.com/datumhub/datumhub/pkg/httputil"
	"github.com/datumhub/datumhub/pkg/middleware"
	"github.com/datumhub/datumhub/pkg/registry"
	"github.com/datumhub/datumhub/pkg/search"
)

// listPackages handles GET /api/v1/packages
func (s *Server) listPackages(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.ParseQueryInt(r, "limit", 0)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	offset, err := httputil.ParseQueryInt(r, "offset", 0)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	if offset < 0 {
		httputil.WriteBadRequest(w, "offset must be non-negative")
		return
	}

	resp, err := s.searcher.Search(r.Context(), search.Request{
		Query:  httputil.ParseQueryString(r, "q", ""),
		Tag:    httputil.ParseQueryString(r, "tag", ""),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeCoreError(w, err)
		return
	}
	httputil.WriteSuccess(w, resp)
}

// suggestPackages handles GET /api/v1/packages/suggest
func (s *Server) suggestPackages(w http.ResponseWriter, r *http.Request) {
	query := httputil.ParseQueryString(r, "q", "")
	if query == "" {
		httputil.WriteBadRequest(w, "q is required")
		return
	}
	n, err := httputil.ParseQueryInt(r, "n", 5)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	resp, err := s.suggester.Suggest(r.Context(), query, n)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	httputil.WriteSuccess(w, resp)
}

// getAllVersions handles GET /api/v1/packages/{publisher}/{namespace}/{dataset}
func (s *Server) getAllVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.store.ListVersions(r.Context(), packageID(r))
	if err != nil {
		writeCoreError(w, err)
		return
	}
	httputil.WriteSuccess(w, versions)
}

// getLatest handles GET /api/v1/packages/{publisher}/{namespace}/{dataset}/latest
func (s *Server) getLatest(w http.ResponseWriter, r *http.Request) {
	pv, err := s.store.GetLatest(r.Context(), packageID(r))
	if err != nil {
		writeCoreError(w, err)
		return
	}
	httputil.WriteSuccess(w, pv)
}

// getPackage handles GET /api/v1/packages/{publisher}/{namespace}/{dataset}/{version}
func (s *Server) getPackage(w http.ResponseWriter, r *http.Request) {
	vars := httputil.GetPathVars(r)
	pv, err := s.store.GetVersion(r.Context(), packageID(r), vars["version"])
	if err != nil {
		writeCoreError(w, err)
		return
	}
	httputil.WriteSuccess(w, pv)
}

// publishPackage handles POST /api/v1/packages?force=
func (s *Server) publishPackage(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		httputil.WriteUnauthorized(w, "not authenticated")
		return
	}

	var pkg registry.Package
	if !httputil.ParseJSONOrError(w, r, &pkg) {
		return
	}
	force, err := httputil.ParseQueryBool(r, "force", false)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	pv, err := s.store.Publish(r.Context(), &pkg, *identity, force)
	if err != nil {
		if s.metrics != nil {
			s.metrics.PublishesTotal.WithLabelValues("error").Inc()
		}
		writeCoreError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.PublishesTotal.WithLabelValues("ok").Inc()
	}
	httputil.WriteCreated(w, pv)
}

// unpublishPackage handles DELETE /api/v1/packages/{publisher}/{namespace}/{dataset}/{version}
func (s *Server) unpublishPackage(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		httputil.WriteUnauthorized(w, "not authenticated")
		return
	}

	vars := httputil.GetPathVars(r)
	if err := s.store.Unpublish(r.Context(), packageID(r), vars["version"], *identity); err != nil {
		if s.metrics != nil {
			s.metrics.UnpublishesTotal.WithLabelValues("error").Inc()
		}
		writeCoreError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.UnpublishesTotal.WithLabelValues("ok").Inc()
	}
	httputil.WriteNoContent(w)
}
