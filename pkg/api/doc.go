// Package api provides the HTTP surface of the datumhub registry.
//
// # Overview
//
// This package wires the core services (store, search, suggestions, auth)
// into a gorilla/mux router. Handlers stay thin: parse the request, call a
// service, map the result or error kind onto a status code.
//
// # Endpoints
//
// Auth:
//
//	POST /api/auth/register
//	POST /api/auth/token
//	POST /api/auth/refresh
//
// Packages:
//
//	GET    /api/v1/packages                       (search/list)
//	GET    /api/v1/packages/suggest
//	POST   /api/v1/packages                       (authenticated)
//	GET    /api/v1/packages/{publisher}/{namespace}/{dataset}
//	GET    /api/v1/packages/{publisher}/{namespace}/{dataset}/latest
//	GET    /api/v1/packages/{publisher}/{namespace}/{dataset}/{version}
//	DELETE /api/v1/packages/{publisher}/{namespace}/{dataset}/{version} (authenticated)
//
// Users, publishers, stats:
//
//	GET /api/v1/users/me                          (authenticated)
//	GET /api/v1/users/{username}
//	GET /api/v1/publishers/{publisher}
//	GET /api/v1/publishers/{publisher}/namespaces/{namespace}
//	GET /api/v1/stats
//	GET /healthz
//
// # Error Mapping
//
//	ErrValidation      -> 422
//	ErrUnauthenticated -> 401
//	ErrForbidden       -> 403
//	ErrConflict        -> 409
//	ErrNotFound        -> 404
//	anything else      -> 500
package api
