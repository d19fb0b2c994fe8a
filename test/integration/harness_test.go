//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/market-lookup/internal/adapters/cache"
	"github.com/jsamuelsen/market-lookup/internal/adapters/clients"
	"github.com/jsamuelsen/market-lookup/internal/adapters/clients/acl"
	httpadapter "github.com/jsamuelsen/market-lookup/internal/adapters/http"
	"github.com/jsamuelsen/market-lookup/internal/adapters/http/handlers"
	"github.com/jsamuelsen/market-lookup/internal/app"
	"github.com/jsamuelsen/market-lookup/internal/domain"
	"github.com/jsamuelsen/market-lookup/internal/platform/config"
	"github.com/jsamuelsen/market-lookup/internal/ports"
)

// configDir holds the shipped base.yaml, loaded so the stack runs with
// production defaults.
const configDir = "../../configs"

// stubQuote is one listing served by the quote upstream.
type stubQuote struct {
	Name  string
	Price string
}

// upstreams fakes the quote provider and the news feeds.
type upstreams struct {
	mu        sync.Mutex
	quotes    map[string]stubQuote
	local     map[string][]domain.FeedItem
	top       []domain.FeedItem
	feedDown  bool
	quoteDown bool
	feedHits  map[string]int
	quoteHits int

	quoteServer *httptest.Server
	feedServer  *httptest.Server
}

func newUpstreams() *upstreams {
	u := &upstreams{
		quotes:   make(map[string]stubQuote),
		local:    make(map[string][]domain.FeedItem),
		feedHits: make(map[string]int),
	}

	u.quoteServer = httptest.NewServer(http.HandlerFunc(u.serveQuote))
	u.feedServer = httptest.NewServer(http.HandlerFunc(u.serveFeed))

	return u
}

func (u *upstreams) close() {
	u.quoteServer.Close()
	u.feedServer.Close()
}

func (u *upstreams) addQuote(symbol, name, price string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.quotes[strings.ToUpper(symbol)] = stubQuote{Name: name, Price: price}
}

func (u *upstreams) setLocal(geo string, items ...domain.FeedItem) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.local[geo] = items
}

func (u *upstreams) setTop(items ...domain.FeedItem) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.top = items
}

func (u *upstreams) setFeedDown(down bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.feedDown = down
}

func (u *upstreams) setQuoteDown(down bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.quoteDown = down
}

func (u *upstreams) hits(key string) int {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.feedHits[key]
}

func (u *upstreams) quoteCalls() int {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.quoteHits
}

// serveQuote answers GET /stock/{symbol}/batch.
func (u *upstreams) serveQuote(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.quoteHits++
	down := u.quoteDown
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	var (
		q  stubQuote
		ok bool
	)

	if len(parts) == 3 && parts[0] == "stock" && parts[2] == "batch" {
		q, ok = u.quotes[strings.ToUpper(parts[1])]
	}
	u.mu.Unlock()

	switch {
	case down:
		w.WriteHeader(http.StatusInternalServerError)
	case !ok:
		http.NotFound(w, r)
	default:
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"price":%s,"company":{"companyName":%q}}`, q.Price, q.Name)
	}
}

// serveFeed answers /local?geo=X and /top with RSS documents.
func (u *upstreams) serveFeed(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	key := r.URL.Path
	if geo := r.URL.Query().Get("geo"); geo != "" {
		key += "?" + geo
	}

	u.feedHits[key]++
	down := u.feedDown
	items := u.top

	if r.URL.Path == "/local" {
		items = u.local[r.URL.Query().Get("geo")]
	}
	u.mu.Unlock()

	if down {
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	_, _ = io.WriteString(w, rss(items))
}

func rss(items []domain.FeedItem) string {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>stub</title>`)

	for _, item := range items {
		fmt.Fprintf(&b, "<item><title>%s</title><link>%s</link></item>",
			html.EscapeString(item.Title), html.EscapeString(item.Link))
	}

	b.WriteString("</channel></rss>")

	return b.String()
}

// stack is the service wired the way cmd/service does it, pointed at the
// stub upstreams.
type stack struct {
	cfg      *config.Config
	up       *upstreams
	engine   *gin.Engine
	feedSvc  *app.FeedService
	registry *ports.DefaultHealthRegistry
}

// stackOption adjusts configuration before wiring.
type stackOption func(*config.Config)

func withAuth(enabled bool) stackOption {
	return func(c *config.Config) { c.Auth.Enabled = enabled }
}

func withRedis(addr string) stackOption {
	return func(c *config.Config) {
		c.Cache.Backend = config.CacheBackendRedis
		c.Cache.Redis.Addr = addr
	}
}

func newStack(up *upstreams, opts ...stackOption) (*stack, error) {
	cfg, err := config.LoadFrom(configDir, "")
	if err != nil {
		return nil, err
	}

	cfg.App.Environment = "test"
	cfg.Services.Quote.BaseURL = up.quoteServer.URL
	cfg.Services.Feed.PrimaryURL = up.feedServer.URL + "/local"
	cfg.Services.Feed.FallbackURL = up.feedServer.URL + "/top"

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	newClient := func(name, baseURL string) (*clients.Client, error) {
		return clients.New(&clients.Config{
			BaseURL:     baseURL,
			ServiceName: name,
			Timeout:     cfg.Client.Timeout,
			UserAgent:   cfg.Client.UserAgent,
			Retry:       cfg.Client.Retry,
			Circuit:     cfg.Client.CircuitBreaker,
			Transport:   cfg.Client.Transport,
			Logger:      logger,
		})
	}

	quoteHTTP, err := newClient(cfg.Services.Quote.Name, cfg.Services.Quote.BaseURL)
	if err != nil {
		return nil, err
	}

	feedHTTP, err := newClient(cfg.Services.Feed.Name, "")
	if err != nil {
		return nil, err
	}

	fallbackHTTP, err := newClient(cfg.Services.Feed.Name+"-fallback", "")
	if err != nil {
		return nil, err
	}

	quoteClient := acl.NewQuoteClient(quoteHTTP)
	feedClient := acl.NewFeedClient(feedHTTP)
	fallbackClient := acl.NewFeedClient(fallbackHTTP)

	registry := ports.NewHealthRegistry()
	_ = registry.Register(quoteClient)
	_ = registry.Register(feedClient)
	_ = registry.Register(fallbackClient)

	var feedCache ports.FeedCache = cache.NewMemory(cfg.Cache.MaxEntries)

	if cfg.Cache.UsesRedis() {
		rc, err := cache.NewRedisClient(context.Background(), cfg.Cache.Redis)
		if err != nil {
			return nil, err
		}

		store := cache.NewRedis(rc, cfg.Cache.Redis.Prefix)
		_ = registry.Register(store)
		feedCache = store
	}

	quoteSvc := app.NewQuoteService(app.QuoteServiceConfig{QuoteClient: quoteClient, Logger: logger})
	feedSvc := app.NewFeedService(app.FeedServiceConfig{
		FeedClient:     feedClient,
		FallbackClient: fallbackClient,
		Cache:          feedCache,
		PrimaryURL:     cfg.Services.Feed.PrimaryURL,
		GeoParam:       cfg.Services.Feed.GeoParam,
		FallbackURL:    cfg.Services.Feed.FallbackURL,
		Logger:         logger,
	})

	gin.SetMode(gin.TestMode)
	engine := gin.New()

	err = httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:     logger,
		AppConfig:  &cfg.App,
		AuthConfig: &cfg.Auth,
		Health:     handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", "now")),
		Quotes:     handlers.NewQuoteHandler(quoteSvc),
		Articles:   handlers.NewArticlesHandler(feedSvc),
		Pages:      handlers.NewPagesHandler(quoteSvc),
		Timeout:    cfg.Server.RequestTimeout,
	})
	if err != nil {
		return nil, err
	}

	return &stack{cfg: cfg, up: up, engine: engine, feedSvc: feedSvc, registry: registry}, nil
}

// get serves target in-process, optionally as a logged-in user.
func (s *stack) get(target, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if user != "" {
		req.Header.Set(s.cfg.Auth.UserHeader, user)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	return w
}

func decode[T any](body []byte) (T, error) {
	var out T
	err := json.Unmarshal(body, &out)

	return out, err
}
