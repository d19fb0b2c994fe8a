package acl

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/market-lookup/internal/domain"
)

func TestCSVQuoteClient_GetQuote(t *testing.T) {
	var gotQuery map[string][]string

	client := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		respond(http.StatusOK, "text/csv", "\"ABC\",\"Example Corp\",123.45\r\n")(w, r)
	})

	quote, err := NewCSVQuoteClient(client).GetQuote(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, &domain.Quote{Symbol: "ABC", Name: "Example Corp", Price: 123.45}, quote)
	assert.Equal(t, []string{"snl1"}, gotQuery["f"])
	assert.Equal(t, []string{"abc"}, gotQuery["s"])
}

func TestCSVQuoteClient_NameWithComma(t *testing.T) {
	client := newUpstream(t, respond(http.StatusOK, "text/csv", `"BRK.B","Berkshire Hathaway, Inc.",412.10`))

	quote, err := NewCSVQuoteClient(client).GetQuote(context.Background(), "brk.b")
	require.NoError(t, err)

	assert.Equal(t, "BRK.B", quote.Symbol)
	assert.Equal(t, "Berkshire Hathaway, Inc.", quote.Name)
}

func TestCSVQuoteClient_Failures(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		want error
	}{
		{"empty body", "", http.StatusOK, domain.ErrMalformed},
		{"too few columns", `"ABC","Example Corp"`, http.StatusOK, domain.ErrMalformed},
		{"price not available", `"ABC","Example Corp",N/A`, http.StatusOK, domain.ErrMalformed},
		{"negative price", `"ABC","Example Corp",-2`, http.StatusOK, domain.ErrMalformed},
		{"broken quoting", `"ABC,"Example`, http.StatusOK, domain.ErrMalformed},
		{"not found", "", http.StatusNotFound, domain.ErrNotFound},
		{"upstream error", "", http.StatusBadGateway, domain.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newUpstream(t, respond(tt.code, "text/csv", tt.body))

			quote, err := NewCSVQuoteClient(client).GetQuote(context.Background(), "abc")

			assert.Nil(t, quote)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
