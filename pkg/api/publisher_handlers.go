package api

import (
	"net/http"

	"github.com/datumhub/datumhub/pkg/httputil"
	"github.com/datumhub/datumhub/pkg/registry"
)

// PublisherData is every dataset version under one publisher slug.
type PublisherData struct {
	Publisher    string                    `json:"publisher"`
	PackageCount int                       `json:"package_count"`
	Packages     []registry.PackageVersion `json:"packages"`
}

// NamespaceData is every dataset version in one publisher/namespace.
type NamespaceData struct {
	Publisher string                    `json:"publisher"`
	Namespace string                    `json:"namespace"`
	Packages  []registry.PackageVersion `json:"packages"`
}

// getStats handles GET /api/v1/stats
func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	httputil.WriteSuccess(w, stats)
}

// getPublisher handles GET /api/v1/publishers/{publisher}
func (s *Server) getPublisher(w http.ResponseWriter, r *http.Request) {
	vars := httputil.GetPathVars(r)
	packages, err := s.store.ListByPublisher(r.Context(), vars["publisher"])
	if err != nil {
		writeCoreError(w, err)
		return
	}
	httputil.WriteSuccess(w, PublisherData{
		Publisher:    vars["publisher"],
		PackageCount: len(packages),
		Packages:     packages,
	})
}

// getNamespace handles GET /api/v1/publishers/{publisher}/namespaces/{namespace}
func (s *Server) getNamespace(w http.ResponseWriter, r *http.Request) {
	vars := httputil.GetPathVars(r)
	packages, err := s.store.ListByNamespace(r.Context(), vars["publisher"], vars["namespace"])
	if err != nil {
		writeCoreError(w, err)
		return
	}
	httputil.WriteSuccess(w, NamespaceData{
		Publisher: vars["publisher"],
		Namespace: vars["namespace"],
		Packages:  packages,
	})
}
