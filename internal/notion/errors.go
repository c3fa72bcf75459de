package notion

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error categories; every error returned by the client matches exactly one
// of them under errors.Is.
var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrConflict       = errors.New("conflict")
	ErrRateLimited    = errors.New("rate limited")
	ErrUnavailable    = errors.New("service unavailable")
	ErrTransport      = errors.New("transport failure")
)

var (
	ErrInvalidPageID = errors.New("invalid page id")
	ErrNoToken       = errors.New("no integration token")
)

// APIError is an error response from the API.
type APIError struct {
	Status     int           `json:"status"`
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	RetryAfter time.Duration `json:"-"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion api: %d %v", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("notion api: %d %v: %v", e.Status, e.Code, e.Message)
}

// Unwrap returns the error's category.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return ErrUnauthorized
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.Status >= 500:
		return ErrUnavailable
	default:
		return ErrInvalidRequest
	}
}

// IsRetryable returns true if err is worth retrying after a pause.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrTransport)
}
