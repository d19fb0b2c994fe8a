package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/market-lookup/internal/platform/config"
	"github.com/jsamuelsen/market-lookup/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withLogger installs a buffer-backed JSON logger as the context logger.
func withLogger(buf *bytes.Buffer) gin.HandlerFunc {
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	}
}

func TestTrackingIDMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		middleware gin.HandlerFunc
		header     string
		fromGin    func(*gin.Context) string
		fromCtx    func(context.Context) string
		incoming   string
	}{
		{
			name:       "request id generated",
			middleware: RequestID(),
			header:     HeaderRequestID,
			fromGin:    GetRequestID,
			fromCtx:    RequestIDFromContext,
		},
		{
			name:       "request id passed through",
			middleware: RequestID(),
			header:     HeaderRequestID,
			fromGin:    GetRequestID,
			fromCtx:    RequestIDFromContext,
			incoming:   "req-abc",
		},
		{
			name:       "correlation id generated",
			middleware: CorrelationID(),
			header:     HeaderCorrelationID,
			fromGin:    GetCorrelationID,
			fromCtx:    CorrelationIDFromContext,
		},
		{
			name:       "correlation id passed through",
			middleware: CorrelationID(),
			header:     HeaderCorrelationID,
			fromGin:    GetCorrelationID,
			fromCtx:    CorrelationIDFromContext,
			incoming:   "corr-xyz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var ginID, ctxID string

			router := gin.New()
			router.Use(tt.middleware)
			router.GET("/quote", func(c *gin.Context) {
				ginID = tt.fromGin(c)
				ctxID = tt.fromCtx(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/quote", nil)
			if tt.incoming != "" {
				req.Header.Set(tt.header, tt.incoming)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			echoed := w.Header().Get(tt.header)
			require.NotEmpty(t, echoed)
			assert.Equal(t, echoed, ginID)
			assert.Equal(t, echoed, ctxID, "client adapters read the id from context.Context")

			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, echoed)
			} else {
				assert.Len(t, echoed, 36)
			}
		})
	}
}

func TestContextIDs(t *testing.T) {
	t.Parallel()

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-2")

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "corr-2", CorrelationIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Empty(t, CorrelationIDFromContext(nil)) //nolint:staticcheck // nil context is handled
}

func TestContextIDs_TagLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.WithContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	ctx = ContextWithRequestID(ctx, "req-9")

	logging.FromContext(ctx).Info("lookup")

	assert.Contains(t, buf.String(), `"request_id":"req-9"`)
}

func TestRequireLogin(t *testing.T) {
	t.Parallel()

	opts := LoginOptionsFromConfig(&config.AuthConfig{
		LoginPath:  "/login",
		UserHeader: "X-User-ID",
	})

	tests := []struct {
		name         string
		cookie       string
		header       string
		wantStatus   int
		wantLocation string
		wantUser     string
	}{
		{
			name:         "anonymous redirected with next",
			wantStatus:   http.StatusFound,
			wantLocation: "/login?next=%2Fquote%3Fsymbol%3Dabc",
		},
		{
			name:       "gateway header",
			header:     "7",
			wantStatus: http.StatusOK,
			wantUser:   "7",
		},
		{
			name:         "client cookie is not an identity",
			cookie:       "42",
			wantStatus:   http.StatusFound,
			wantLocation: "/login?next=%2Fquote%3Fsymbol%3Dabc",
		},
		{
			name:         "blank header is anonymous",
			header:       "   ",
			wantStatus:   http.StatusFound,
			wantLocation: "/login?next=%2Fquote%3Fsymbol%3Dabc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var user string

			router := gin.New()
			router.Use(RequireLogin(opts))
			router.GET("/quote", func(c *gin.Context) {
				user, _ = CurrentUser(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/quote?symbol=abc", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "user_id", Value: tt.cookie})
			}

			if tt.header != "" {
				req.Header.Set("X-User-ID", tt.header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			assert.Equal(t, tt.wantUser, user)
		})
	}
}

func TestRequireLogin_Defaults(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(RequireLogin(LoginOptions{}))
	router.GET("/quote", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/quote", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fquote", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/quote", nil)
	req.Header.Set("X-User-ID", "9")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel string
		wantLog   bool
	}{
		{name: "success at info", path: "/api/v1/quotes/ABC", status: http.StatusOK, wantLevel: "INFO", wantLog: true},
		{name: "client error at warn", path: "/api/v1/quotes/A,B", status: http.StatusBadRequest, wantLevel: "WARN", wantLog: true},
		{name: "server error at error", path: "/api/v1/articles", status: http.StatusBadGateway, wantLevel: "ERROR", wantLog: true},
		{name: "health path skipped", path: "/-/live", status: http.StatusOK},
		{name: "explicit skip", path: "/favicon.ico", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			router := gin.New()
			router.Use(withLogger(&buf), Logging("/favicon.ico"))
			router.GET(tt.path, func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path+"?geo=10001", nil))

			assert.Equal(t, tt.status, w.Code)

			if !tt.wantLog {
				assert.Empty(t, buf.String())
				return
			}

			out := buf.String()
			assert.Contains(t, out, `"msg":"request completed"`)
			assert.Contains(t, out, `"level":"`+tt.wantLevel+`"`)
			assert.Contains(t, out, `"query":"geo=10001"`)
		})
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	t.Run("default json envelope", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		router := gin.New()
		router.Use(withLogger(&buf), Recovery(nil))
		router.GET("/boom", func(*gin.Context) { panic("upstream parser exploded") })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
		assert.Contains(t, buf.String(), "panic recovered")
		assert.Contains(t, buf.String(), "upstream parser exploded")
	})

	t.Run("custom responder", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery(func(c *gin.Context, _ string) {
			c.String(http.StatusInternalServerError, "sorry")
		}))
		router.GET("/boom", func(*gin.Context) { panic("x") })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "sorry", w.Body.String())
	})

	t.Run("no panic passes through", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery(nil))
		router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestDeadline(t *testing.T) {
	t.Parallel()

	var deadline time.Time
	var ok bool

	router := gin.New()
	router.Use(Deadline(time.Second))
	router.GET("/quote", func(c *gin.Context) {
		deadline, ok = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	before := time.Now()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/quote", nil))

	require.True(t, ok)
	assert.WithinDuration(t, before.Add(time.Second), deadline, 200*time.Millisecond)
}
