package registry

import (
	"errors"
	"fmt"
)

// Sentinel errors for the registry core. The transport layer maps these to
// HTTP status codes; everything else is treated as an internal error.
var (
	// ErrNotFound indicates a single-resource lookup miss. An empty list
	// result is a valid success, never ErrNotFound.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a duplicate (package id, version) pair published
	// without an explicit overwrite.
	ErrConflict = errors.New("already exists")

	// ErrForbidden indicates a valid identity with insufficient rights over
	// the target resource. Distinct from ErrUnauthenticated.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthenticated indicates a missing, invalid, or expired credential.
	// Expired and never-issued are deliberately indistinguishable.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrValidation is the match target for all ValidationError values.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports a malformed input rejected before any store
// mutation. It unwraps to ErrValidation so callers can match with errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
