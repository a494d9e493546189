package api

import (
	"context"
	"net/http"

	"tickerdash/internal/models"
)

type hoursParams struct {
	Hours int `url:"hours"`
}

// DashboardNews returns every tracked ticker with its latest insights and
// articles from the past hours.
func (c *Client) DashboardNews(ctx context.Context, hours int) (models.DashboardSnapshot, error) {
	var snap models.DashboardSnapshot
	err := c.do(ctx, call{
		op:     "dashboard_news",
		method: http.MethodGet,
		path:   "/api/news/dashboard-news",
		params: hoursParams{Hours: hours},
		auth:   true,
	}, &snap)
	if snap == nil && err == nil {
		snap = models.DashboardSnapshot{}
	}
	return snap, err
}

// Dashboard returns the simplified dashboard: the user and their tickers.
func (c *Client) Dashboard(ctx context.Context) (models.SimpleDashboard, error) {
	var d models.SimpleDashboard
	err := c.do(ctx, call{op: "dashboard", method: http.MethodGet, path: "/api/dashboard/", auth: true}, &d)
	return d, err
}

// DashboardTickers lists the tickers on the user's own dashboard.
func (c *Client) DashboardTickers(ctx context.Context) ([]models.Ticker, error) {
	out := []models.Ticker{}
	err := c.do(ctx, call{op: "dashboard_tickers", method: http.MethodGet, path: "/api/dashboard/tickers", auth: true}, &out)
	return out, err
}
