package dto

import "github.com/jsamuelsen/market-lookup/internal/domain"

// ArticlesRequest binds the articles query string.
type ArticlesRequest struct {
	Geo string `form:"geo" json:"geo" validate:"required,notblank,max=64"`
}

// ArticleResponse is one feed item.
type ArticleResponse struct {
	Link  string `json:"link"`
	Title string `json:"title"`
}

// ArticlesResponse lists the articles for a geo code.
type ArticlesResponse struct {
	Geo   string            `json:"geo"`
	Items []ArticleResponse `json:"items"`
	Count int               `json:"count"`
}

// NewArticlesResponse converts feed items, keeping their order. Items is
// never null in the encoded JSON.
func NewArticlesResponse(geo string, items []domain.FeedItem) ArticlesResponse {
	out := make([]ArticleResponse, len(items))
	for i, item := range items {
		out[i] = ArticleResponse{Link: item.Link, Title: item.Title}
	}

	return ArticlesResponse{Geo: geo, Items: out, Count: len(out)}
}
