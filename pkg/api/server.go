package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/datumhub/datumhub/pkg/auth"
	"github.com/datumhub/datumhub/pkg/httputil"
	"github.com/datumhub/datumhub/pkg/middleware"
	"github.com/datumhub/datumhub/pkg/observability"
	"github.com/datumhub/datumhub/pkg/registry"
	"github.com/datumhub/datumhub/pkg/search"
)

// Server is the HTTP surface of the registry. It is thin glue: every request
// is parsed, dispatched to a core service, and the result or error kind is
// mapped back to a status code.
type Server struct {
	router    *mux.Router
	store     *registry.Store
	searcher  *search.Service
	suggester *search.Suggester
	authSvc   *auth.Service
	authMW    *middleware.AuthMiddleware
	logger    *observability.Logger
	metrics   *observability.Metrics
}

// NewServer wires the core services into a router. metrics may be nil.
func NewServer(
	store *registry.Store,
	searcher *search.Service,
	suggester *search.Suggester,
	authSvc *auth.Service,
	logger *observability.Logger,
	metrics *observability.Metrics,
) *Server {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	s := &Server{
		router:    mux.NewRouter(),
		store:     store,
		searcher:  searcher,
		suggester: suggester,
		authSvc:   authSvc,
		authMW:    middleware.NewAuthMiddleware(authSvc, false),
		logger:    logger,
		metrics:   metrics,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	// Auth routes
	s.router.HandleFunc("/api/auth/register", s.register).Methods("POST")
	s.router.HandleFunc("/api/auth/token", s.issueToken).Methods("POST")
	s.router.HandleFunc("/api/auth/refresh", s.refreshToken).Methods("POST")

	// Package read routes (public). /suggest must be registered before the
	// {publisher}/{namespace}/{dataset} routes so it isn't captured as a path.
	s.router.HandleFunc("/api/v1/packages/suggest", s.suggestPackages).Methods("GET")
	s.router.HandleFunc("/api/v1/packages", s.listPackages).Methods("GET")
	s.router.HandleFunc("/api/v1/packages/{publisher}/{namespace}/{dataset}", s.getAllVersions).Methods("GET")
	s.router.HandleFunc("/api/v1/packages/{publisher}/{namespace}/{dataset}/latest", s.getLatest).Methods("GET")
	s.router.HandleFunc("/api/v1/packages/{publisher}/{namespace}/{dataset}/{version}", s.getPackage).Methods("GET")

	// Package write routes (authenticated)
	s.router.Handle("/api/v1/packages",
		s.authMW.Handler(http.HandlerFunc(s.publishPackage))).Methods("POST")
	s.router.Handle("/api/v1/packages/{publisher}/{namespace}/{dataset}/{version}",
		s.authMW.Handler(http.HandlerFunc(s.unpublishPackage))).Methods("DELETE")

	// User routes. /me must be registered before /{username}.
	s.router.Handle("/api/v1/users/me",
		s.authMW.Handler(http.HandlerFunc(s.getMe))).Methods("GET")
	s.router.HandleFunc("/api/v1/users/{username}", s.getUser).Methods("GET")

	// Publisher and stats routes
	s.router.HandleFunc("/api/v1/stats", s.getStats).Methods("GET")
	s.router.HandleFunc("/api/v1/publishers/{publisher}", s.getPublisher).Methods("GET")
	s.router.HandleFunc("/api/v1/publishers/{publisher}/namespaces/{namespace}", s.getNamespace).Methods("GET")

	// Liveness probe
	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteSuccess(w, map[string]string{"status": "ok"})
	}).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// writeCoreError maps a core error kind to its HTTP status. Index
// unavailability never reaches this point; the search service degrades to the
// substring scan internally.
func writeCoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrValidation):
		httputil.WriteUnprocessable(w, err.Error())
	case errors.Is(err, registry.ErrUnauthenticated):
		httputil.WriteUnauthorized(w, err.Error())
	case errors.Is(err, registry.ErrForbidden):
		httputil.WriteForbidden(w, err.Error())
	case errors.Is(err, registry.ErrConflict):
		httputil.WriteConflict(w, err.Error())
	case errors.Is(err, registry.ErrNotFound):
		httputil.WriteNotFoundError(w, err.Error())
	default:
		httputil.WriteInternalError(w, err)
	}
}

// packageID joins the three identifier path segments back together.
func packageID(r *http.Request) string {
	vars := httputil.GetPathVars(r)
	return vars["publisher"] + "/" + vars["namespace"] + "/" + vars["dataset"]
}
