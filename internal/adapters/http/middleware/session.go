package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/market-lookup/internal/platform/config"
	"github.com/jsamuelsen/market-lookup/internal/platform/logging"
)

const (
	// ContextKeyUserID is the gin context key holding the logged-in user.
	ContextKeyUserID = "user_id"

	defaultUserHeader = "X-User-ID"
)

// LoginOptions configures RequireLogin.
type LoginOptions struct {
	// LoginPath receives unauthenticated browsers.
	LoginPath string

	// UserHeader carries the user ID resolved by the gateway. The gateway
	// must strip any client-supplied copy of it.
	UserHeader string
}

// LoginOptionsFromConfig maps the auth config section to LoginOptions.
func LoginOptionsFromConfig(cfg *config.AuthConfig) LoginOptions {
	return LoginOptions{
		LoginPath:  cfg.LoginPath,
		UserHeader: cfg.UserHeader,
	}
}

// RequireLogin redirects requests without a user to the login page,
// preserving the original location in the next parameter.
func RequireLogin(opts LoginOptions) gin.HandlerFunc {
	if opts.LoginPath == "" {
		opts.LoginPath = "/login"
	}

	if opts.UserHeader == "" {
		opts.UserHeader = defaultUserHeader
	}

	return func(c *gin.Context) {
		userID := sessionUser(c, opts)
		if userID == "" {
			logging.FromContext(c.Request.Context()).Debug("login required",
				slog.String("path", c.Request.URL.Path),
			)

			target := opts.LoginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()

			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// CurrentUser returns the user set by RequireLogin.
func CurrentUser(c *gin.Context) (string, bool) {
	id := c.GetString(ContextKeyUserID)

	return id, id != ""
}

// sessionUser trusts only the gateway header. Cookies are client-controlled
// and never identify a user here.
func sessionUser(c *gin.Context, opts LoginOptions) string {
	return strings.TrimSpace(c.GetHeader(opts.UserHeader))
}
