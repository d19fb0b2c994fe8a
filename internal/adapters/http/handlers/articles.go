package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/market-lookup/internal/adapters/http/dto"
	"github.com/jsamuelsen/market-lookup/internal/app"
)

// ArticlesHandler serves geo-scoped news.
type ArticlesHandler struct {
	service *app.FeedService
}

// NewArticlesHandler creates an ArticlesHandler.
func NewArticlesHandler(service *app.FeedService) *ArticlesHandler {
	return &ArticlesHandler{service: service}
}

// GetArticles handles GET /api/v1/articles?geo=<code>. Upstream failures
// never surface here: the feed service degrades to an empty list.
func (h *ArticlesHandler) GetArticles(c *gin.Context) {
	var req dto.ArticlesRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	geo := strings.TrimSpace(req.Geo)
	items := h.service.Articles(c.Request.Context(), geo)

	c.JSON(http.StatusOK, dto.NewArticlesResponse(geo, items))
}

// Register mounts the article routes on rg.
func (h *ArticlesHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/articles", h.GetArticles)
}
