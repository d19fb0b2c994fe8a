package acl

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/market-lookup/internal/adapters/clients"
	"github.com/jsamuelsen/market-lookup/internal/adapters/http/dto"
	"github.com/jsamuelsen/market-lookup/internal/domain"
	"github.com/jsamuelsen/market-lookup/internal/platform/config"
)

// newUpstream starts handler and returns a client pointed at it.
func newUpstream(t *testing.T, handler http.HandlerFunc, mutate ...func(*clients.Config)) *clients.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &clients.Config{
		ServiceName: "quote-api",
		BaseURL:     server.URL,
		Timeout:     2 * time.Second,
		Retry:       config.RetryConfig{MaxAttempts: 1},
		Circuit:     config.CircuitBreakerConfig{MaxFailures: 5, Timeout: time.Minute, HalfOpenLimit: 1},
	}

	for _, m := range mutate {
		m(cfg)
	}

	client, err := clients.New(cfg)
	require.NoError(t, err)

	return client
}

func respond(status int, contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}

		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestMapHTTPError(t *testing.T) {
	call := Call{Service: "quote-api", Operation: "get quote", Entity: "symbol", ID: "ZZZZ"}

	tests := []struct {
		name      string
		resp      *http.Response
		clientErr error
		want      error
		contains  string
	}{
		{
			name: "2xx is not an error",
			resp: &http.Response{StatusCode: http.StatusOK},
		},
		{
			name:     "404 is not found",
			resp:     &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader("Unknown symbol"))},
			want:     domain.ErrNotFound,
			contains: "ZZZZ",
		},
		{
			name:     "other 4xx is unavailable with body snippet",
			resp:     &http.Response{StatusCode: http.StatusForbidden, Body: io.NopCloser(strings.NewReader("invalid token"))},
			want:     domain.ErrUnavailable,
			contains: "invalid token",
		},
		{
			name:     "no response",
			want:     domain.ErrUnavailable,
			contains: "no response",
		},
		{
			name:      "circuit open",
			clientErr: clients.ErrCircuitOpen,
			want:      domain.ErrUnavailable,
			contains:  "circuit breaker open",
		},
		{
			name:      "upstream 5xx",
			clientErr: &clients.StatusError{Service: "quote-api", StatusCode: 502},
			want:      domain.ErrUnavailable,
			contains:  "502",
		},
		{
			name:      "timeout",
			clientErr: context.DeadlineExceeded,
			want:      domain.ErrUnavailable,
			contains:  "timed out",
		},
		{
			name:      "transport error",
			clientErr: errors.New("connection refused"),
			want:      domain.ErrUnavailable,
			contains:  "connection refused",
		},
		{
			name: "url error keeps the cause only",
			clientErr: &url.Error{
				Op:  "Get",
				URL: "https://quotes.example.com/stock/abc/batch?token=pk_live",
				Err: errors.New("connection reset"),
			},
			want:     domain.ErrUnavailable,
			contains: "Get request: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapHTTPError(tt.resp, tt.clientErr, call)

			if tt.want == nil {
				assert.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.contains)
			assert.NotContains(t, err.Error(), "pk_live")
		})
	}
}

func TestQuoteClient_TokenNeverSurfaces(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := clients.New(&clients.Config{
		ServiceName: "quote-api",
		BaseURL:     baseURL,
		Timeout:     time.Second,
		AuthFunc:    TokenAuth("s3cr3t-TOKEN"),
	})
	require.NoError(t, err)

	_, err = NewQuoteClient(client).GetQuote(context.Background(), "abc")

	require.ErrorIs(t, err, domain.ErrUnavailable)
	assert.NotContains(t, err.Error(), "s3cr3t-TOKEN")
	assert.NotContains(t, err.Error(), baseURL)

	status, resp := dto.MapDomainError(err)
	body, jsonErr := json.Marshal(resp)
	require.NoError(t, jsonErr)

	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.NotContains(t, string(body), "s3cr3t-TOKEN")
}

func TestParsePriceString(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{raw: "123.45", want: 123.45},
		{raw: " 0 ", want: 0},
		{raw: "123.450", want: 123.45},
		{raw: "", wantErr: true},
		{raw: "N/A", wantErr: true},
		{raw: "-1.00", wantErr: true},
		{raw: "NaN", wantErr: true},
		{raw: "Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePriceString("quote-api", tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrMalformed)
				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParsePrice_Missing(t *testing.T) {
	_, err := ParsePrice("quote-api", nil)
	require.ErrorIs(t, err, domain.ErrMalformed)

	d := decimal.RequireFromString("42.1")
	got, err := ParsePrice("quote-api", &d)
	require.NoError(t, err)
	assert.InDelta(t, 42.1, got, 1e-9)
}

func TestTranslateSlice(t *testing.T) {
	got := TranslateSlice([]int{3, 1, 2}, func(i int) string { return strings.Repeat("x", i) })

	assert.Equal(t, []string{"xxx", "x", "xx"}, got)
	assert.Empty(t, TranslateSlice(nil, func(i int) int { return i }))
}

func TestNewBaseAdapter_PanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() { NewBaseAdapter(nil) })
}

func TestBaseAdapter_HealthCheck(t *testing.T) {
	client := newUpstream(t, respond(http.StatusInternalServerError, "", ""),
		func(c *clients.Config) { c.Circuit.MaxFailures = 1 })

	adapter := NewQuoteClient(client)

	assert.Equal(t, "quote-api", adapter.Name())
	require.NoError(t, adapter.Check(context.Background()))

	_, err := adapter.GetQuote(context.Background(), "ABC")
	require.ErrorIs(t, err, domain.ErrUnavailable)

	assert.ErrorIs(t, adapter.Check(context.Background()), clients.ErrCircuitOpen)
}

func TestTokenAuth(t *testing.T) {
	assert.Nil(t, TokenAuth(""))

	req := httptest.NewRequest(http.MethodGet, "https://quotes.example.com/stock/abc/batch?last=1", nil)
	TokenAuth("pk_test")(req)

	assert.Equal(t, "pk_test", req.URL.Query().Get("token"))
	assert.Equal(t, "1", req.URL.Query().Get("last"))
}
