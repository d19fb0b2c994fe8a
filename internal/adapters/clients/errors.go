// Package clients provides the instrumented outbound HTTP client shared by
// the quote and feed adapters.
package clients

import (
	"errors"
	"fmt"
	"net/url"
)

// Transport-level failures. Adapters translate these into domain errors.
var (
	// ErrCircuitOpen is returned without a network call while the breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrAttemptsExhausted wraps the last error once every attempt has failed.
	ErrAttemptsExhausted = errors.New("request attempts exhausted")
)

// StatusError reports an upstream 5xx that was not recovered by a retry.
type StatusError struct {
	Service    string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Service, e.StatusCode)
}

// StripURL drops the request URL from a transport error. Upstream URLs may
// carry credentials in the query string, so only the cause is kept.
func StripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request: %w", urlErr.Op, urlErr.Err)
	}

	return err
}
