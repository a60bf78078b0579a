package apiclient

import (
	"fmt"
	"net/http"

	apperrors "github.com/jrsteele09/recruit-console/internal/errors"
)

// Sentinels matched by the error types below through errors.Is.
var (
	ErrUnauthorized   = apperrors.ErrUnauthorized
	ErrForbidden      = apperrors.ErrForbidden
	ErrNotFound       = apperrors.ErrNotFound
	ErrInvalidRequest = apperrors.ErrInvalidRequest
	ErrNetwork        = apperrors.ErrNetwork
	ErrRefreshFailed  = apperrors.ErrRefreshFailed
)

// StatusError is returned for any non-2xx response. The response is kept intact.
type StatusError struct {
	Method   string
	Path     string
	Response *Response
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Response.StatusCode)
	if detail := e.Detail(); detail != "" {
		msg += ": " + detail
	}
	return msg
}

func (e *StatusError) StatusCode() int {
	return e.Response.StatusCode
}

// Detail returns the backend's error message.
func (e *StatusError) Detail() string {
	return e.Response.detail()
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Response.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.Response.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.Response.StatusCode == http.StatusNotFound
	case ErrInvalidRequest:
		return e.Response.StatusCode == http.StatusBadRequest || e.Response.StatusCode == http.StatusUnprocessableEntity
	}
	return false
}

// NetworkError means no response was received. It never triggers a token refresh.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// RefreshError is returned to every caller whose retry depended on a failed refresh.
// It wraps the refresh failure, not the request's original 401.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

func (e *RefreshError) Is(target error) bool { return target == ErrRefreshFailed }
