package dashboard

import (
	"context"
	"time"

	"tickerdash/internal/config"
	apperrors "tickerdash/internal/errors"
	"tickerdash/internal/models"
)

// Backend is the subset of the API client the dashboard drives.
type Backend interface {
	CurrentUser(ctx context.Context) (models.User, error)
	DashboardNews(ctx context.Context, hours int) (models.DashboardSnapshot, error)
	Dashboard(ctx context.Context) (models.SimpleDashboard, error)
	CreateTicker(ctx context.Context, symbol, name string, typ models.TickerType) (models.Ticker, error)
	RemoveTicker(ctx context.Context, symbol string) error
}

// Source is one way of loading the dashboard.
type Source interface {
	Name() string
	Interval() time.Duration
	// Load fetches a snapshot. A nil user is fetched alongside it when the
	// source can; the returned user is nil if it could not be obtained.
	Load(ctx context.Context, b Backend, user *models.User) (*models.User, models.DashboardSnapshot, error)
}

// NewsSource loads tickers with their insights and articles.
type NewsSource struct {
	Hours int
	Every time.Duration
}

// Name implements Source.
func (s NewsSource) Name() string { return config.VariantNews }

// Interval implements Source.
func (s NewsSource) Interval() time.Duration {
	if s.Every > 0 {
		return s.Every
	}
	return config.NewsRefreshInterval
}

// Load implements Source. A failed user lookup other than 401 does not stop
// the snapshot from loading.
func (s NewsSource) Load(ctx context.Context, b Backend, user *models.User) (*models.User, models.DashboardSnapshot, error) {
	if user == nil {
		u, err := b.CurrentUser(ctx)
		switch {
		case err == nil:
			user = &u
		case apperrors.IsUnauthorized(err):
			return nil, nil, err
		}
	}
	hours := s.Hours
	if hours <= 0 {
		hours = 24
	}
	snap, err := b.DashboardNews(ctx, hours)
	if err != nil {
		return user, nil, err
	}
	return user, snap, nil
}

// SimpleSource loads the simplified dashboard, which bundles the user.
type SimpleSource struct {
	Every time.Duration
}

// Name implements Source.
func (s SimpleSource) Name() string { return config.VariantSimple }

// Interval implements Source.
func (s SimpleSource) Interval() time.Duration {
	if s.Every > 0 {
		return s.Every
	}
	return config.SimpleRefreshInterval
}

// Load implements Source.
func (s SimpleSource) Load(ctx context.Context, b Backend, _ *models.User) (*models.User, models.DashboardSnapshot, error) {
	d, err := b.Dashboard(ctx)
	if err != nil {
		return nil, nil, err
	}
	return &d.User, d.Snapshot(), nil
}

// SourceFor returns the source configured by cfg.
func SourceFor(cfg *config.Config) Source {
	if cfg.Dashboard.Variant == config.VariantSimple {
		return SimpleSource{Every: cfg.Dashboard.RefreshInterval}
	}
	return NewsSource{Hours: cfg.Dashboard.NewsWindowHours, Every: cfg.Dashboard.RefreshInterval}
}
