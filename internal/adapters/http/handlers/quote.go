package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/market-lookup/internal/adapters/http/dto"
	"github.com/jsamuelsen/market-lookup/internal/app"
)

// QuoteHandler serves the JSON quote endpoint.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a QuoteHandler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// GetQuote handles GET /api/v1/quotes/:symbol.
//
//	200 QuoteResponse
//	400 symbol rejected (empty, index prefix, several symbols)
//	404 provider does not know the symbol
//	502 provider answered with data that could not be parsed
//	503 provider unreachable or failing
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := dto.BindURIAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	quote, err := h.service.Lookup(c.Request.Context(), req.Symbol)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// Register mounts the quote routes on rg.
func (h *QuoteHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/quotes/:symbol", h.GetQuote)
}
