package acl

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/market-lookup/internal/adapters/clients"
	"github.com/jsamuelsen/market-lookup/internal/domain"
	"github.com/jsamuelsen/market-lookup/internal/platform/logging"
)

// QuoteClient implements ports.QuoteClient against a JSON batch endpoint:
//
//	GET {base}/stock/{symbol}/batch?types=price,company&last=1
type QuoteClient struct {
	BaseAdapter
}

// NewQuoteClient creates a JSON quote adapter. It panics if client is nil.
func NewQuoteClient(client *clients.Client) *QuoteClient {
	return &QuoteClient{BaseAdapter: NewBaseAdapter(client)}
}

// batchResponse is the provider's payload. Only the fields we read are
// declared.
type batchResponse struct {
	Price   *decimal.Decimal `json:"price"`
	Company *struct {
		CompanyName string `json:"companyName"`
	} `json:"company"`
}

// GetQuote implements ports.QuoteClient. symbol must already be validated.
func (c *QuoteClient) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	logging.FromContext(ctx).DebugContext(ctx, "fetching quote",
		slog.String("symbol", symbol),
		slog.String("format", "json"),
	)

	call := Call{Operation: "get quote", Entity: "symbol", ID: symbol}
	query := url.Values{"types": {"price,company"}, "last": {"1"}}

	body, err := c.Fetch(ctx, call, "/stock/"+url.PathEscape(symbol)+"/batch", query)
	if err != nil {
		return nil, err
	}

	ext, err := DecodeResponse[batchResponse](body)
	if err != nil {
		return nil, domain.NewMalformedError(c.ServiceName(), err.Error())
	}

	return c.translate(symbol, ext)
}

func (c *QuoteClient) translate(symbol string, ext *batchResponse) (*domain.Quote, error) {
	price, err := ParsePrice(c.ServiceName(), ext.Price)
	if err != nil {
		return nil, err
	}

	if ext.Company == nil {
		return nil, domain.NewMalformedError(c.ServiceName(), "company is missing")
	}

	return domain.NewQuote(symbol, ext.Company.CompanyName, price)
}
