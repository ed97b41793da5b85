package api

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	URL  string
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.URL, e.Code)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.URL, e.Code, e.Body)
}

// IsStatus reports whether err carries a StatusError.
func IsStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

func retryable(code int) bool {
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}
