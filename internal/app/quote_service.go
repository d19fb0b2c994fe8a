// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/market-lookup/internal/domain"
	"github.com/jsamuelsen/market-lookup/internal/ports"
)

// QuoteService looks up stock quotes.
type QuoteService struct {
	client ports.QuoteClient
	logger *slog.Logger
}

// QuoteServiceConfig contains the quote service dependencies.
type QuoteServiceConfig struct {
	QuoteClient ports.QuoteClient
	Logger      *slog.Logger
}

// NewQuoteService creates a QuoteService. It panics if QuoteClient is nil.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.QuoteClient == nil {
		panic("QuoteService: QuoteClient is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{client: cfg.QuoteClient, logger: logger}
}

// Lookup returns the current quote for symbol. Symbols starting with "^" or
// containing "," are rejected with a validation error before any request is
// made. The returned quote's symbol is always the uppercased input.
func (s *QuoteService) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	if err := domain.ValidateSymbol(symbol); err != nil {
		s.logger.DebugContext(ctx, "symbol rejected", slog.String("symbol", symbol), slog.Any("error", err))
		return nil, err
	}

	quote, err := s.client.GetQuote(ctx, symbol)
	if err != nil {
		s.logger.WarnContext(ctx, "quote lookup failed",
			slog.String("symbol", symbol),
			slog.Any("error", err),
		)

		return nil, err
	}

	quote.Symbol = domain.NormalizeSymbol(symbol)

	s.logger.InfoContext(ctx, "quote looked up",
		slog.String("symbol", quote.Symbol),
		slog.Float64("price", quote.Price),
	)

	return quote, nil
}
