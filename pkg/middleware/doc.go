// Package middleware provides HTTP authentication middleware.
//
// AuthMiddleware extracts the bearer token from the Authorization header,
// resolves it through the auth service, and stores the resulting identity in
// the request context for handlers to read via GetIdentity.
package middleware
