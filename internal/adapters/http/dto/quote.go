package dto

import (
	"github.com/jsamuelsen/market-lookup/internal/domain"
	"github.com/jsamuelsen/market-lookup/internal/platform/currency"
)

// QuoteRequest binds the symbol path parameter.
type QuoteRequest struct {
	Symbol string `uri:"symbol" json:"symbol" validate:"required,max=16"`
}

// QuoteResponse is the JSON form of a quote.
type QuoteResponse struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	PriceDisplay string  `json:"priceDisplay"`
}

// NewQuoteResponse converts a domain quote.
func NewQuoteResponse(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		Symbol:       q.Symbol,
		Name:         q.Name,
		Price:        q.Price,
		PriceDisplay: currency.USD(q.Price),
	}
}
