package handlers

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/market-lookup/internal/app"
	"github.com/jsamuelsen/market-lookup/internal/platform/currency"
	"github.com/jsamuelsen/market-lookup/internal/platform/logging"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DefaultApologyCode is the status used when Apologize is given none.
const DefaultApologyCode = http.StatusBadRequest

// Templates parses the embedded page templates for engine.SetHTMLTemplate.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.tmpl")
}

// captionEscaper rewrites text for a memegen caption path segment.
var captionEscaper = strings.NewReplacer(
	"-", "--",
	" ", "-",
	"_", "__",
	"?", "~q",
	"%", "~p",
	"#", "~h",
	"/", "~s",
	`"`, "''",
)

// EscapeCaption applies the meme caption escaping rules.
func EscapeCaption(s string) string {
	return captionEscaper.Replace(s)
}

// Apologize renders the apology page with status code. A code outside the
// 4xx/5xx range falls back to DefaultApologyCode.
func Apologize(c *gin.Context, code int, message string) {
	if code < http.StatusBadRequest || code > 599 {
		code = DefaultApologyCode
	}

	c.HTML(code, "apology.tmpl", gin.H{
		"Title":  "Apology",
		"Top":    strconv.Itoa(code),
		"Bottom": EscapeCaption(message),
	})
}

// RecoverWithApology renders panics on page routes as an apology rather
// than a JSON envelope.
func RecoverWithApology(c *gin.Context, _ string) {
	Apologize(c, http.StatusInternalServerError, "something went wrong")
}

// PagesHandler serves the browser pages.
type PagesHandler struct {
	quotes *app.QuoteService
}

// NewPagesHandler creates a PagesHandler.
func NewPagesHandler(quotes *app.QuoteService) *PagesHandler {
	return &PagesHandler{quotes: quotes}
}

// Login renders the login form. Sessions are established upstream; the
// page only carries the next location through.
func (h *PagesHandler) Login(c *gin.Context) {
	c.HTML(http.StatusOK, "login.tmpl", gin.H{
		"Title": "Log In",
		"Next":  c.Query("next"),
	})
}

// Quote renders the lookup form, or the quoted price when symbol is given.
// Every lookup failure becomes the same apology.
func (h *PagesHandler) Quote(c *gin.Context) {
	symbol, ok := c.GetQuery("symbol")
	if !ok {
		c.HTML(http.StatusOK, "quote.tmpl", gin.H{"Title": "Quote"})
		return
	}

	quote, err := h.quotes.Lookup(c.Request.Context(), symbol)
	if err != nil {
		logging.FromContext(c.Request.Context()).Info("quote page lookup failed",
			slog.String("symbol", symbol),
			slog.Any("error", err),
		)
		Apologize(c, http.StatusBadRequest, "invalid symbol")

		return
	}

	c.HTML(http.StatusOK, "quoted.tmpl", gin.H{
		"Title":  "Quoted",
		"Name":   quote.Name,
		"Symbol": quote.Symbol,
		"Price":  currency.USD(quote.Price),
	})
}
