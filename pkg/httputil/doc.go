// Package httputil provides shared HTTP response, request-parsing, and
// middleware helpers used by the API handlers.
package httputil
