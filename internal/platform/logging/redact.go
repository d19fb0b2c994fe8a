package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	bearerPattern = regexp.MustCompile(`(?i)^bearer\s+.+$`)

	// Quote provider tokens: publishable (pk_) and secret (sk_) keys.
	providerTokenPattern = regexp.MustCompile(`^[ps]k_[A-Za-z0-9]{16,}$`)

	// Upstream URLs that carry their token in the query string.
	tokenQueryPattern = regexp.MustCompile(`[?&]token=[^&\s]+`)
)

// DefaultRedactOptions lists the field names and value patterns that are
// never written to logs.
func DefaultRedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("password"),
		masq.WithFieldName("token"),
		masq.WithFieldName("api_token"),
		masq.WithFieldName("apiToken"),
		masq.WithFieldName("api_key"),
		masq.WithFieldName("authorization"),
		masq.WithFieldName("cookie"),
		masq.WithFieldName("session"),
		masq.WithFieldName("redis_password"),
		masq.WithFieldPrefix("secret"),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(providerTokenPattern),
		masq.WithRegex(tokenQueryPattern),
	}
}

// NewReplaceAttr returns a slog ReplaceAttr that redacts secrets using the
// default options plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}
