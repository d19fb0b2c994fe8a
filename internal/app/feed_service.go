package app

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"

	"github.com/jsamuelsen/market-lookup/internal/domain"
	"github.com/jsamuelsen/market-lookup/internal/ports"
)

const instrumentationName = "github.com/jsamuelsen/market-lookup/internal/app"

// FeedService returns news articles for a geo code.
type FeedService struct {
	client      ports.FeedClient
	fallback    ports.FeedClient
	cache       ports.FeedCache
	primaryURL  string
	geoParam    string
	fallbackURL string
	logger      *slog.Logger

	flights singleflight.Group
	lookups metric.Int64Counter
}

// FeedServiceConfig contains the feed service dependencies.
type FeedServiceConfig struct {
	FeedClient ports.FeedClient

	// FallbackClient fetches FallbackURL. It should not share a circuit
	// breaker with FeedClient, or a primary outage also blocks the
	// fallback. Defaults to FeedClient.
	FallbackClient ports.FeedClient

	Cache ports.FeedCache

	// PrimaryURL is the geo-scoped feed. The escaped geo code is appended
	// as the GeoParam query parameter.
	PrimaryURL string
	GeoParam   string

	// FallbackURL is fetched as is when the primary feed is empty or fails.
	FallbackURL string

	Logger *slog.Logger
}

// NewFeedService creates a FeedService. It panics if FeedClient or Cache
// is nil.
func NewFeedService(cfg FeedServiceConfig) *FeedService {
	if cfg.FeedClient == nil {
		panic("FeedService: FeedClient is required")
	}

	if cfg.Cache == nil {
		panic("FeedService: Cache is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fallback := cfg.FallbackClient
	if fallback == nil {
		fallback = cfg.FeedClient
	}

	geoParam := cfg.GeoParam
	if geoParam == "" {
		geoParam = "geo"
	}

	// The counter is optional instrumentation; a failure leaves it nil.
	lookups, _ := otel.Meter(instrumentationName).Int64Counter(
		"feed.cache.lookups",
		metric.WithDescription("Feed lookups by cache result"),
	)

	return &FeedService{
		client:      cfg.FeedClient,
		fallback:    fallback,
		cache:       cfg.Cache,
		primaryURL:  cfg.PrimaryURL,
		geoParam:    geoParam,
		fallbackURL: cfg.FallbackURL,
		logger:      logger,
		lookups:     lookups,
	}
}

// Articles returns the feed items for geo. It never fails: when neither
// the primary nor the fallback feed can be fetched it returns an empty
// slice, and that outcome is not cached so a later call can recover.
//
// A cached geo is served without any request. Concurrent misses for the
// same geo share one fetch.
func (s *FeedService) Articles(ctx context.Context, geo string) []domain.FeedItem {
	if items, ok := s.cached(ctx, geo); ok {
		s.count(ctx, "hit")
		return items
	}

	s.count(ctx, "miss")

	// The shared fetch must outlive any single caller's cancellation.
	ch := s.flights.DoChan(geo, func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx), geo), nil
	})

	select {
	case <-ctx.Done():
		s.logger.DebugContext(ctx, "articles lookup abandoned", slog.String("geo", geo))
		return []domain.FeedItem{}
	case res := <-ch:
		items, _ := res.Val.([]domain.FeedItem)
		return items
	}
}

// fetch runs the primary → fallback sequence and caches a successful
// result under the original geo code.
func (s *FeedService) fetch(ctx context.Context, geo string) []domain.FeedItem {
	// A flight that finished just before this one started may have filled it.
	if items, ok := s.cached(ctx, geo); ok {
		return items
	}

	logger := s.logger.With(slog.String("geo", geo))

	items, err := s.client.FetchFeed(ctx, s.geoURL(geo))
	switch {
	case err != nil:
		logger.WarnContext(ctx, "primary feed failed, using fallback", slog.Any("error", err))
	case len(items) == 0:
		logger.InfoContext(ctx, "primary feed empty, using fallback")
	}

	if err != nil || len(items) == 0 {
		items, err = s.fallback.FetchFeed(ctx, s.fallbackURL)
		if err != nil {
			logger.ErrorContext(ctx, "fallback feed failed", slog.Any("error", err))
			return []domain.FeedItem{}
		}
	}

	if err := s.cache.Set(ctx, geo, items); err != nil {
		logger.WarnContext(ctx, "caching articles failed", slog.Any("error", err))
	}

	logger.DebugContext(ctx, "articles fetched", slog.Int("count", len(items)))

	return items
}

func (s *FeedService) cached(ctx context.Context, geo string) ([]domain.FeedItem, bool) {
	items, ok, err := s.cache.Get(ctx, geo)
	if err != nil {
		s.logger.WarnContext(ctx, "feed cache read failed", slog.String("geo", geo), slog.Any("error", err))
		return nil, false
	}

	return items, ok
}

// geoURL appends the percent-encoded geo code to the primary feed URL.
func (s *FeedService) geoURL(geo string) string {
	sep := "?"
	if strings.Contains(s.primaryURL, "?") {
		sep = "&"
	}

	return s.primaryURL + sep + s.geoParam + "=" + url.QueryEscape(geo)
}

func (s *FeedService) count(ctx context.Context, result string) {
	if s.lookups != nil {
		s.lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	}
}
