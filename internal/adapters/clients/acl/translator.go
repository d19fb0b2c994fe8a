package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/market-lookup/internal/adapters/clients"
	"github.com/jsamuelsen/market-lookup/internal/domain"
	"github.com/jsamuelsen/market-lookup/internal/platform/logging"
)

// maxBodySize bounds upstream payloads read into memory.
const maxBodySize = 4 << 20

// BaseAdapter holds what every upstream adapter shares: the instrumented
// client and error translation. It also satisfies ports.HealthChecker.
type BaseAdapter struct {
	client *clients.Client
}

// NewBaseAdapter creates a BaseAdapter. It panics if client is nil.
func NewBaseAdapter(client *clients.Client) BaseAdapter {
	if client == nil {
		panic("acl: client is required")
	}

	return BaseAdapter{client: client}
}

// ServiceName returns the upstream name.
func (a *BaseAdapter) ServiceName() string {
	return a.client.ServiceName()
}

// Name implements ports.HealthChecker.
func (a *BaseAdapter) Name() string {
	return a.client.ServiceName()
}

// Check implements ports.HealthChecker. It reports the circuit state
// rather than probing the upstream, so readiness never spends quota.
func (a *BaseAdapter) Check(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Fetch performs a GET and returns the full body of a 2xx response. Any
// other outcome is returned as a domain error.
func (a *BaseAdapter) Fetch(ctx context.Context, call Call, path string, query url.Values) ([]byte, error) {
	call.Service = a.client.ServiceName()

	resp, err := a.client.Get(ctx, path, query)
	if err != nil {
		return nil, MapHTTPError(nil, err, call)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := MapHTTPError(resp, nil, call); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, domain.NewUnavailableError(call.Service, call.Operation+": reading body: "+err.Error())
	}

	logging.Trace(ctx, "upstream payload",
		slog.String("downstream", call.Service),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.String("body", truncate(body, 1024)),
	)

	return body, nil
}

// DecodeResponse decodes a JSON body into T.
func DecodeResponse[T any](body []byte) (*T, error) {
	var out T

	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &out, nil
}

// TranslateSlice maps every element of items in order.
func TranslateSlice[E, D any](items []E, translate func(E) D) []D {
	out := make([]D, 0, len(items))
	for _, item := range items {
		out = append(out, translate(item))
	}

	return out
}

// ParsePrice converts a provider price to float64. Missing, non-numeric and
// negative values are malformed.
func ParsePrice(source string, raw *decimal.Decimal) (float64, error) {
	if raw == nil {
		return 0, domain.NewMalformedError(source, "price is missing")
	}

	if raw.IsNegative() {
		return 0, domain.NewMalformedError(source, "price is negative: "+raw.String())
	}

	price, _ := raw.Float64()

	return price, nil
}

// ParsePriceString parses a textual price field.
func ParsePriceString(source, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.NewMalformedError(source, "price is missing")
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, domain.NewMalformedError(source, fmt.Sprintf("price %q is not a number", raw))
	}

	return ParsePrice(source, &d)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}

	return string(b[:n]) + "…"
}
