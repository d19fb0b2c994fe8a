package acl

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/jsamuelsen/market-lookup/internal/adapters/clients"
	"github.com/jsamuelsen/market-lookup/internal/domain"
	"github.com/jsamuelsen/market-lookup/internal/platform/logging"
)

// FeedClient implements ports.FeedClient for RSS, Atom and JSON feeds.
type FeedClient struct {
	BaseAdapter
	parser *gofeed.Parser
}

// NewFeedClient creates a feed adapter. It panics if client is nil.
func NewFeedClient(client *clients.Client) *FeedClient {
	return &FeedClient{
		BaseAdapter: NewBaseAdapter(client),
		parser:      gofeed.NewParser(),
	}
}

// FetchFeed implements ports.FeedClient. rawURL is requested as is; an
// empty feed is not an error.
func (c *FeedClient) FetchFeed(ctx context.Context, rawURL string) ([]domain.FeedItem, error) {
	call := Call{Operation: "fetch feed", Entity: "feed", ID: rawURL}

	body, err := c.Fetch(ctx, call, rawURL, nil)
	if err != nil {
		return nil, err
	}

	feed, err := c.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewMalformedError(c.ServiceName(), "parsing feed: "+err.Error())
	}

	items := TranslateSlice(nonNil(feed.Items), translateItem)

	logging.FromContext(ctx).DebugContext(ctx, "feed fetched",
		slog.String("url", rawURL),
		slog.Int("items", len(items)),
	)

	return items, nil
}

func translateItem(item *gofeed.Item) domain.FeedItem {
	return domain.FeedItem{
		Link:  strings.TrimSpace(item.Link),
		Title: strings.TrimSpace(item.Title),
	}
}

func nonNil(items []*gofeed.Item) []*gofeed.Item {
	out := items[:0:0]
	for _, item := range items {
		if item != nil {
			out = append(out, item)
		}
	}

	return out
}
