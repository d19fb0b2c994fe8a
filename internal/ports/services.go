// Package ports defines interfaces for external dependencies.
// Adapters implement them; the application layer depends only on these
// contracts and on domain types.
//
// Conventions:
//   - Context is always the first parameter
//   - Return domain types, never provider DTOs
//   - Failures are domain errors (ErrValidation, ErrUnavailable, ErrMalformed, ErrNotFound)
package ports

import (
	"context"

	"github.com/jsamuelsen/market-lookup/internal/domain"
)

// QuoteClient fetches a single price quote from an upstream provider.
// Implementations issue exactly one request per call.
type QuoteClient interface {
	// GetQuote returns the quote for symbol.
	// Returns domain.ErrUnavailable on transport or status failure and
	// domain.ErrMalformed when the price cannot be parsed.
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
}

// FeedClient fetches and parses an RSS or Atom feed.
type FeedClient interface {
	// FetchFeed returns the items of the feed at rawURL in document order.
	// rawURL may be absolute or relative to the client's base URL.
	FetchFeed(ctx context.Context, rawURL string) ([]domain.FeedItem, error)
}

// FeedCache stores feed results by geo code for the lifetime of the owner.
// Entries never expire.
type FeedCache interface {
	// Get returns the cached items and true on a hit.
	Get(ctx context.Context, geo string) ([]domain.FeedItem, bool, error)

	// Set stores items under geo, replacing any previous entry.
	Set(ctx context.Context, geo string, items []domain.FeedItem) error
}
