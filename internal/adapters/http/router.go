package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/market-lookup/internal/adapters/http/handlers"
	"github.com/jsamuelsen/market-lookup/internal/adapters/http/middleware"
	"github.com/jsamuelsen/market-lookup/internal/platform/config"
	"github.com/jsamuelsen/market-lookup/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds API requests when RouterConfig.Timeout is unset.
const DefaultRequestTimeout = 20 * time.Second

// RouterConfig collects the handlers and settings for SetupRouter.
type RouterConfig struct {
	Logger    *slog.Logger
	AppConfig *config.AppConfig

	// AuthConfig gates the HTML pages when Enabled.
	AuthConfig *config.AuthConfig

	Health   *handlers.HealthHandler
	Quotes   *handlers.QuoteHandler
	Articles *handlers.ArticlesHandler
	Pages    *handlers.PagesHandler

	// Timeout is the deadline placed on /api/v1 requests.
	Timeout time.Duration
}

// SetupRouter installs middleware and routes on engine.
//
// Global middleware, outermost first:
//  1. Recovery (JSON envelope)
//  2. ContextLogger
//  3. RequestID, CorrelationID
//  4. OpenTelemetry tracing and metrics
//  5. Logging (skips /-/ paths)
//
// Routes:
//   - /-/live, /-/ready, /-/build, /-/metrics
//   - /api/v1/quotes/:symbol, /api/v1/articles (request deadline)
//   - /login, /quote (HTML; /quote behind RequireLogin when auth is enabled)
func SetupRouter(engine *gin.Engine, cfg RouterConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	engine.Use(
		middleware.Recovery(nil),
		middleware.ContextLogger(logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.AppConfig.Name)...)
	engine.Use(middleware.Logging("/favicon.ico"))

	if cfg.Health != nil {
		cfg.Health.Register(engine.Group("/-"))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	api := engine.Group("/api/v1", middleware.Deadline(timeout))

	if cfg.Quotes != nil {
		cfg.Quotes.Register(api)
	}

	if cfg.Articles != nil {
		cfg.Articles.Register(api)
	}

	if cfg.Pages != nil {
		return setupPages(engine, cfg)
	}

	return nil
}

// setupPages loads the templates and mounts the browser routes. Panics on
// these routes render an apology page instead of JSON.
func setupPages(engine *gin.Engine, cfg RouterConfig) error {
	tmpl, err := handlers.Templates()
	if err != nil {
		return err
	}

	engine.SetHTMLTemplate(tmpl)

	pages := engine.Group("", middleware.Recovery(handlers.RecoverWithApology))
	pages.GET("/login", cfg.Pages.Login)

	protected := pages.Group("")
	if cfg.AuthConfig != nil && cfg.AuthConfig.Enabled {
		protected.Use(middleware.RequireLogin(middleware.LoginOptionsFromConfig(cfg.AuthConfig)))
	}

	protected.GET("/quote", cfg.Pages.Quote)

	return nil
}
