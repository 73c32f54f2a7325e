package ports

import (
	"context"
	"time"

	"github.com/lorrc/support-analytics-backend/internal/core/domain"
)

// AnalyticsBuilder rebuilds the per-ticket analytic table from a fresh
// snapshot of the data source. Each call is independent: no caching, no
// incremental merge, no shared state between invocations.
type AnalyticsBuilder interface {
	BuildTable(ctx context.Context) (*domain.AnalyticsResult, error)
}

// FilterParams narrows the analytic table for dashboard consumers.
// Zero values mean "no filter" for that dimension.
type FilterParams struct {
	// SizeCategory is "small", "large", or "all"/"" for no filter.
	SizeCategory string
	// Month is a full English month name derived from CreatedAt
	// ("January".."December"), or "all"/"" for no filter.
	Month string
	// From and To bound CreatedAt inclusively, at day granularity.
	From *time.Time
	To   *time.Time
}

// DashboardService exposes the consumer contract of the analytic table:
// filtering, daily resampling with zero-filled gaps, and zone summaries.
type DashboardService interface {
	FilterTickets(ctx context.Context, params FilterParams) ([]domain.AnalyticRecord, error)
	DailySeries(ctx context.Context, params FilterParams) ([]domain.DailyPoint, error)
	Summary(ctx context.Context, params FilterParams) (*domain.ZoneSummary, error)
}
