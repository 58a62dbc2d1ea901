package wp

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that the requested entity does not exist upstream.
// Not-found is terminal: the retry policy never applies to it.
var ErrNotFound = errors.New("wp: not found")

// APIError is a non-2xx response from the WordPress REST API. Code and Message
// come from the standard WP error body when one is present.
type APIError struct {
	StatusCode int
	Code       string // e.g. "rest_no_route", "rest_post_invalid_page_number"
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("wp: api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("wp: api error %d", e.StatusCode)
}

// Transient reports whether the failure is worth retrying.
func (e *APIError) Transient() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// NotFound reports whether the error represents a missing entity rather than
// a failure.
func (e *APIError) NotFound() bool {
	if e.StatusCode == 404 {
		return true
	}
	switch e.Code {
	case "rest_no_route", "rest_post_invalid_id", "rest_term_invalid", "rest_post_invalid_page_number":
		return true
	}
	return false
}

// IsNotFound reports whether err is a missing-entity error of any form.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}

// IsTransient reports whether err may succeed on retry (network failures and
// retryable API statuses).
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	// Network-level failures (timeouts, refused connections) surface as
	// url.Error and are retryable; anything else (decode errors, context
	// cancellation) is not.
	return errors.Is(err, errTransportFailure)
}
