package hunter

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error represents an HTTP error from the Hunter API. Details carries the
// human-readable message from the service's error body when one was
// present.
type Error struct {
	StatusCode int
	ID         string
	Details    string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return e.Details
	}
	return fmt.Sprintf("hunter API error: status %d", e.StatusCode)
}

// RateLimited reports whether the error is a throttling signal worth
// retrying.
func (e *Error) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// Message extracts the best human-readable message from a failure: the
// service-supplied details when the error carries a Hunter error body,
// otherwise the error's own text.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Details != "" {
		return apiErr.Details
	}
	return err.Error()
}

// IsRateLimited reports whether err signals rate limiting: a 429 from the
// API, or transport-level error text mentioning a rate limit.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.RateLimited()
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") || strings.Contains(msg, "429")
}
