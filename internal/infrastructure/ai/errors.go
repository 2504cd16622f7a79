package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// Credential resolution failures. Both are configuration errors: the run
// aborts before any record is processed.
var (
	ErrNoCredentials        = errors.New("no classifier credentials configured")
	ErrAmbiguousCredentials = errors.New("multiple classifier credential schemes configured")
)

// StatusError is a non-2xx answer from a provider endpoint.
type StatusError struct {
	Provider   string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned status: %s", e.Provider, e.Status)
}

// Transient reports whether the status is worth retrying: request timeout,
// rate limiting, or a server-side failure.
func (e *StatusError) Transient() bool {
	return e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= 500
}
