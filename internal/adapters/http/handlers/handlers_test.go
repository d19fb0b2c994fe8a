package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/market-lookup/internal/adapters/cache"
	"github.com/jsamuelsen/market-lookup/internal/app"
	"github.com/jsamuelsen/market-lookup/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newQuoteService(t *testing.T, setup func(*mocks.MockQuoteClient)) *app.QuoteService {
	t.Helper()

	client := mocks.NewMockQuoteClient(t)
	if setup != nil {
		setup(client)
	}

	return app.NewQuoteService(app.QuoteServiceConfig{QuoteClient: client, Logger: discardLogger()})
}

func newFeedService(t *testing.T, setup func(*mocks.MockFeedClient)) *app.FeedService {
	t.Helper()

	client := mocks.NewMockFeedClient(t)
	if setup != nil {
		setup(client)
	}

	return app.NewFeedService(app.FeedServiceConfig{
		FeedClient:  client,
		Cache:       cache.NewMemory(0),
		PrimaryURL:  "https://news.example.com/rss",
		FallbackURL: "https://fallback.example.com/rss",
		Logger:      discardLogger(),
	})
}

// newEngine returns an engine with the page templates loaded.
func newEngine(t *testing.T) *gin.Engine {
	t.Helper()

	tmpl, err := Templates()
	require.NoError(t, err)

	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)

	return engine
}

func get(engine *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	return w
}
