package api

import (
	"context"
	"net/http"

	"tickerdash/internal/models"
)

type newsParams struct {
	Limit    int    `url:"limit,omitempty"`
	Provider string `url:"provider,omitempty"`
}

// TickerNews returns the latest articles for symbol, optionally filtered by
// news provider.
func (c *Client) TickerNews(ctx context.Context, symbol string, limit int, provider string) ([]models.Article, error) {
	var out []models.Article
	err := c.do(ctx, call{
		op:     "ticker_news",
		method: http.MethodGet,
		path:   "/api/news/ticker/" + pathSymbol(symbol) + "/news",
		params: newsParams{Limit: limit, Provider: provider},
		auth:   true,
	}, &out)
	return out, err
}

type limitParams struct {
	Limit int `url:"limit,omitempty"`
}

// TickerInsights returns the latest AI insights for symbol.
func (c *Client) TickerInsights(ctx context.Context, symbol string, limit int) ([]models.Insight, error) {
	var out []models.Insight
	err := c.do(ctx, call{
		op:     "ticker_insights",
		method: http.MethodGet,
		path:   "/api/news/ticker/" + pathSymbol(symbol) + "/insights",
		params: limitParams{Limit: limit},
		auth:   true,
	}, &out)
	return out, err
}

// MessageResponse is the acknowledgement body of action endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// RefreshTickerNews asks the backend to fetch and analyze news for symbol now.
func (c *Client) RefreshTickerNews(ctx context.Context, symbol string) (MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, call{
		op:     "refresh_ticker_news",
		method: http.MethodPost,
		path:   "/api/news/ticker/" + pathSymbol(symbol) + "/refresh",
		auth:   true,
	}, &out)
	return out, err
}
