package acl

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jsamuelsen/market-lookup/internal/adapters/clients"
	"github.com/jsamuelsen/market-lookup/internal/domain"
	"github.com/jsamuelsen/market-lookup/internal/platform/logging"
)

// csvFields asks for symbol, name and last trade price, in that order.
const csvFields = "snl1"

// CSVQuoteClient implements ports.QuoteClient against a CSV endpoint:
//
//	GET {base}?f=snl1&s={symbol}
//
// The first record must carry at least three columns: symbol, name, price.
type CSVQuoteClient struct {
	BaseAdapter
}

// NewCSVQuoteClient creates a CSV quote adapter. It panics if client is nil.
func NewCSVQuoteClient(client *clients.Client) *CSVQuoteClient {
	return &CSVQuoteClient{BaseAdapter: NewBaseAdapter(client)}
}

// GetQuote implements ports.QuoteClient. symbol must already be validated.
func (c *CSVQuoteClient) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	logging.FromContext(ctx).DebugContext(ctx, "fetching quote",
		slog.String("symbol", symbol),
		slog.String("format", "csv"),
	)

	call := Call{Operation: "get quote", Entity: "symbol", ID: symbol}
	query := url.Values{"f": {csvFields}, "s": {symbol}}

	body, err := c.Fetch(ctx, call, "", query)
	if err != nil {
		return nil, err
	}

	record, err := readRecord(body)
	if err != nil {
		return nil, domain.NewMalformedError(c.ServiceName(), err.Error())
	}

	price, err := ParsePriceString(c.ServiceName(), record[2])
	if err != nil {
		return nil, err
	}

	return domain.NewQuote(symbol, strings.TrimSpace(record[1]), price)
}

func readRecord(body []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	record, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty response")
	}

	if err != nil {
		return nil, err
	}

	if len(record) < 3 {
		return nil, errors.New("expected symbol, name and price columns")
	}

	return record, nil
}
