package acl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen/market-lookup/internal/adapters/clients"
	"github.com/jsamuelsen/market-lookup/internal/domain"
)

// maxErrorSnippet bounds how much of an error body ends up in a message.
const maxErrorSnippet = 256

// Call describes one upstream operation for error reporting.
type Call struct {
	Service   string // upstream name, e.g. "quote-api"
	Operation string // e.g. "get quote"
	Entity    string // what a 404 means was missing, e.g. "symbol"
	ID        string // the looked-up key
}

// MapHTTPError translates a failed upstream call into a domain error.
// clientErr is set when no response was received; otherwise resp is
// inspected. A 2xx response maps to nil.
func MapHTTPError(resp *http.Response, clientErr error, call Call) error {
	if clientErr != nil {
		return mapClientError(clientErr, call)
	}

	if resp == nil {
		return domain.NewUnavailableError(call.Service, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	if resp.StatusCode == http.StatusNotFound {
		return domain.NewNotFoundError(call.Entity, call.ID)
	}

	msg := fmt.Sprintf("%s: unexpected status %d", call.Operation, resp.StatusCode)
	if snippet := readSnippet(resp.Body); snippet != "" {
		msg += ": " + snippet
	}

	return domain.NewUnavailableError(call.Service, msg)
}

func mapClientError(err error, call Call) error {
	var statusErr *clients.StatusError

	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(call.Service, "circuit breaker open during "+call.Operation)
	case errors.As(err, &statusErr):
		return domain.NewUnavailableError(call.Service,
			fmt.Sprintf("%s: upstream status %d", call.Operation, statusErr.StatusCode))
	case errors.Is(err, context.DeadlineExceeded):
		return domain.NewUnavailableError(call.Service, call.Operation+" timed out")
	default:
		return domain.NewUnavailableError(call.Service,
			fmt.Sprintf("%s failed: %v", call.Operation, clients.StripURL(err)))
	}
}

func readSnippet(body io.Reader) string {
	if body == nil {
		return ""
	}

	raw, err := io.ReadAll(io.LimitReader(body, maxErrorSnippet))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(raw))
}
