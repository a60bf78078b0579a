package errors

import (
	"errors"
	"fmt"
)

// Common error types for the recruitment console client
var (
	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Token errors
	ErrInvalidToken  = errors.New("invalid token")
	ErrRefreshFailed = errors.New("token refresh failed")
	ErrNoSession     = errors.New("no active session")

	// Transport errors
	ErrNetwork = errors.New("network error")

	// Request errors
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
