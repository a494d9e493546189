package api

import (
	"context"
	"net/http"

	"tickerdash/internal/models"
)

type createTickerRequest struct {
	Symbol string            `json:"symbol"`
	Name   string            `json:"name"`
	Type   models.TickerType `json:"type"`
}

// CreateTicker registers a ticker with the backend.
func (c *Client) CreateTicker(ctx context.Context, symbol, name string, typ models.TickerType) (models.Ticker, error) {
	cl, err := c.jsonCall("create_ticker", http.MethodPost, "/api/tickers/create",
		createTickerRequest{Symbol: symbol, Name: name, Type: typ})
	if err != nil {
		return models.Ticker{}, err
	}
	var t models.Ticker
	err = c.do(ctx, cl, &t)
	return t, err
}

type addTickerRequest struct {
	Symbol string `json:"symbol"`
}

// AddToDashboard attaches a ticker the backend already knows to the user's
// dashboard. The backend answers 404 for unknown symbols and 400 when the
// ticker is already tracked.
func (c *Client) AddToDashboard(ctx context.Context, symbol string) (models.Ticker, error) {
	cl, err := c.jsonCall("add_to_dashboard", http.MethodPost, "/api/tickers/add", addTickerRequest{Symbol: symbol})
	if err != nil {
		return models.Ticker{}, err
	}
	var t models.Ticker
	err = c.do(ctx, cl, &t)
	return t, err
}

// RemoveTicker removes symbol from the user's dashboard.
func (c *Client) RemoveTicker(ctx context.Context, symbol string) error {
	return c.do(ctx, call{
		op:     "remove_ticker",
		method: http.MethodDelete,
		path:   "/api/tickers/remove/" + pathSymbol(symbol),
		auth:   true,
	}, nil)
}

// SearchTicker looks up a known ticker by symbol.
func (c *Client) SearchTicker(ctx context.Context, symbol string) (models.Ticker, error) {
	var t models.Ticker
	err := c.do(ctx, call{
		op:     "search_ticker",
		method: http.MethodGet,
		path:   "/api/tickers/search/" + pathSymbol(symbol),
		auth:   true,
	}, &t)
	return t, err
}

type pageParams struct {
	Skip  int `url:"skip"`
	Limit int `url:"limit,omitempty"`
}

// AllTickers lists every ticker the backend knows about.
func (c *Client) AllTickers(ctx context.Context, skip, limit int) ([]models.Ticker, error) {
	var out []models.Ticker
	err := c.do(ctx, call{
		op:     "all_tickers",
		method: http.MethodGet,
		path:   "/api/tickers/all",
		params: pageParams{Skip: skip, Limit: limit},
		auth:   true,
	}, &out)
	return out, err
}
