// Package main runs the market lookup service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/market-lookup/internal/adapters/cache"
	"github.com/jsamuelsen/market-lookup/internal/adapters/clients"
	"github.com/jsamuelsen/market-lookup/internal/adapters/clients/acl"
	"github.com/jsamuelsen/market-lookup/internal/adapters/http"
	"github.com/jsamuelsen/market-lookup/internal/adapters/http/handlers"
	"github.com/jsamuelsen/market-lookup/internal/app"
	"github.com/jsamuelsen/market-lookup/internal/platform/config"
	"github.com/jsamuelsen/market-lookup/internal/platform/logging"
	"github.com/jsamuelsen/market-lookup/internal/platform/telemetry"
	"github.com/jsamuelsen/market-lookup/internal/ports"
)

// Build-time variables, injected via ldflags:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(logging.ConfigFrom(&cfg.App, &cfg.Log))
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("quote_format", cfg.Services.Quote.Format),
		slog.String("cache_backend", cfg.Cache.Backend),
	)

	telProvider, err := telemetry.New(ctx, telemetry.ConfigFrom(&cfg.App, &cfg.Telemetry))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if err := telProvider.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", err))
		}
	}()

	registry := ports.NewHealthRegistry()

	quoteClient, err := newQuoteClient(cfg, logger)
	if err != nil {
		return err
	}

	feedHTTP, err := clients.New(upstreamConfig(cfg, cfg.Services.Feed.Name, "", nil, logger))
	if err != nil {
		return fmt.Errorf("creating feed client: %w", err)
	}

	feedClient := acl.NewFeedClient(feedHTTP)

	// The fallback gets its own breaker so a primary outage cannot block it.
	fallbackHTTP, err := clients.New(upstreamConfig(cfg, cfg.Services.Feed.Name+"-fallback", "", nil, logger))
	if err != nil {
		return fmt.Errorf("creating fallback feed client: %w", err)
	}

	fallbackClient := acl.NewFeedClient(fallbackHTTP)

	feedCache, closeCache, err := newFeedCache(ctx, cfg, registry)
	if err != nil {
		return err
	}
	defer closeCache()

	for _, checker := range []ports.HealthChecker{quoteClient, feedClient, fallbackClient} {
		if err := registry.Register(checker); err != nil {
			return fmt.Errorf("registering health check: %w", err)
		}
	}

	quoteService := app.NewQuoteService(app.QuoteServiceConfig{QuoteClient: quoteClient, Logger: logger})
	feedService := app.NewFeedService(app.FeedServiceConfig{
		FeedClient:     feedClient,
		FallbackClient: fallbackClient,
		Cache:          feedCache,
		PrimaryURL:     cfg.Services.Feed.PrimaryURL,
		GeoParam:       cfg.Services.Feed.GeoParam,
		FallbackURL:    cfg.Services.Feed.FallbackURL,
		Logger:         logger,
	})

	server := http.New(&cfg.Server, logger)

	err = http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:     logger,
		AppConfig:  &cfg.App,
		AuthConfig: &cfg.Auth,
		Health:     handlers.NewHealthHandler(registry, handlers.NewBuildInfo(Version, Commit, BuildTime)),
		Quotes:     handlers.NewQuoteHandler(quoteService),
		Articles:   handlers.NewArticlesHandler(feedService),
		Pages:      handlers.NewPagesHandler(quoteService),
		Timeout:    cfg.Server.RequestTimeout,
	})
	if err != nil {
		return fmt.Errorf("setting up router: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(server.ListenAndServe)

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("initiating graceful shutdown", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}

// upstreamConfig builds the shared client settings for one upstream.
func upstreamConfig(cfg *config.Config, name, baseURL string, auth func(*nethttp.Request), logger *slog.Logger) *clients.Config {
	return &clients.Config{
		BaseURL:     baseURL,
		ServiceName: name,
		Timeout:     cfg.Client.Timeout,
		UserAgent:   cfg.Client.UserAgent,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		AuthFunc:    auth,
		Logger:      logger,
	}
}

// quoteAdapter is satisfied by both quote ACLs.
type quoteAdapter interface {
	ports.QuoteClient
	ports.HealthChecker
}

func newQuoteClient(cfg *config.Config, logger *slog.Logger) (quoteAdapter, error) {
	qc := cfg.Services.Quote

	httpClient, err := clients.New(upstreamConfig(cfg, qc.Name, qc.BaseURL, acl.TokenAuth(qc.APIToken), logger))
	if err != nil {
		return nil, fmt.Errorf("creating quote client: %w", err)
	}

	if qc.Format == config.QuoteFormatCSV {
		return acl.NewCSVQuoteClient(httpClient), nil
	}

	return acl.NewQuoteClient(httpClient), nil
}

// newFeedCache returns the configured cache and a func releasing it. The
// Redis backend is also registered as a readiness check.
func newFeedCache(ctx context.Context, cfg *config.Config, registry ports.HealthRegistry) (ports.FeedCache, func(), error) {
	if !cfg.Cache.UsesRedis() {
		return cache.NewMemory(cfg.Cache.MaxEntries), func() {}, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.Cache.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}

	release := func() {
		if err := client.Close(); err != nil {
			slog.Warn("closing redis client", slog.Any("error", err))
		}
	}

	store := cache.NewRedis(client, cfg.Cache.Redis.Prefix)
	if err := registry.Register(store); err != nil {
		release()
		return nil, nil, fmt.Errorf("registering health check: %w", err)
	}

	return store, release, nil
}
