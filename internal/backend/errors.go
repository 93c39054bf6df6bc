package backend

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Sentinel errors for the storefront failure taxonomy. Upstream HTTP
// failures carry their numeric status in APIError and match these
// sentinels through errors.Is.
var (
	ErrUnauthenticated = errors.New("authentication required, please login again")
	ErrForbidden       = errors.New("operation not permitted")
	ErrNotFound        = errors.New("not found")
)

// APIError is any non-2xx reply from the upstream backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %s (status %d)", e.Message, e.Status)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthenticated:
		return e.Status == 401
	case ErrForbidden:
		return e.Status == 403
	case ErrNotFound:
		return e.Status == 404
	}
	return false
}

// AuthError is a failed credential exchange. It never implies a
// session mutation: login and register leave the store untouched.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s (status %d)", e.Message, e.Status)
}

// ValidationError reports client-side required-field failures, raised
// before any network call.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

// NetworkError means the request could not complete at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "backend unreachable: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
