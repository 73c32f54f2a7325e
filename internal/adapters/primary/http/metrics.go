package http

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/lorrc/support-analytics-backend/internal/core/domain"
	"github.com/lorrc/support-analytics-backend/internal/core/ports"
)

// BuildMetrics tracks analytic table rebuilds. Counters are exposed in the
// plain-text exposition format so any scraper can read them without a
// client library.
type BuildMetrics struct {
	startedAtUnix       int64
	buildsTotal         atomic.Int64
	buildErrorsTotal    atomic.Int64
	excludedTickets     atomic.Int64
	lastBuildDurationMs atomic.Int64
}

// NewBuildMetrics creates a metrics collector.
func NewBuildMetrics() *BuildMetrics {
	return &BuildMetrics{startedAtUnix: time.Now().Unix()}
}

// InstrumentBuilder wraps a builder so every rebuild updates the collector.
func InstrumentBuilder(builder ports.AnalyticsBuilder, metrics *BuildMetrics) ports.AnalyticsBuilder {
	return &instrumentedBuilder{builder: builder, metrics: metrics}
}

type instrumentedBuilder struct {
	builder ports.AnalyticsBuilder
	metrics *BuildMetrics
}

func (b *instrumentedBuilder) BuildTable(ctx context.Context) (*domain.AnalyticsResult, error) {
	start := time.Now()
	result, err := b.builder.BuildTable(ctx)
	if err != nil {
		b.metrics.buildErrorsTotal.Add(1)
		return nil, err
	}

	b.metrics.buildsTotal.Add(1)
	b.metrics.excludedTickets.Add(int64(result.ExcludedTickets))
	b.metrics.lastBuildDurationMs.Store(time.Since(start).Milliseconds())
	return result, nil
}

// Handle serves GET /metrics.
func (m *BuildMetrics) Handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	w.WriteHeader(http.StatusOK)

	uptimeSeconds := time.Now().Unix() - m.startedAtUnix
	_, _ = fmt.Fprintf(w, "# HELP support_analytics_uptime_seconds Process uptime in seconds.\n")
	_, _ = fmt.Fprintf(w, "# TYPE support_analytics_uptime_seconds gauge\n")
	_, _ = fmt.Fprintf(w, "support_analytics_uptime_seconds %d\n", uptimeSeconds)

	_, _ = fmt.Fprintf(w, "# HELP support_analytics_builds_total Completed analytic table rebuilds.\n")
	_, _ = fmt.Fprintf(w, "# TYPE support_analytics_builds_total counter\n")
	_, _ = fmt.Fprintf(w, "support_analytics_builds_total %d\n", m.buildsTotal.Load())

	_, _ = fmt.Fprintf(w, "# HELP support_analytics_build_errors_total Rebuilds aborted by data-source failures.\n")
	_, _ = fmt.Fprintf(w, "# TYPE support_analytics_build_errors_total counter\n")
	_, _ = fmt.Fprintf(w, "support_analytics_build_errors_total %d\n", m.buildErrorsTotal.Load())

	_, _ = fmt.Fprintf(w, "# HELP support_analytics_excluded_tickets_total Tickets excluded for malformed status events.\n")
	_, _ = fmt.Fprintf(w, "# TYPE support_analytics_excluded_tickets_total counter\n")
	_, _ = fmt.Fprintf(w, "support_analytics_excluded_tickets_total %d\n", m.excludedTickets.Load())

	_, _ = fmt.Fprintf(w, "# HELP support_analytics_last_build_duration_ms Duration of the most recent rebuild.\n")
	_, _ = fmt.Fprintf(w, "# TYPE support_analytics_last_build_duration_ms gauge\n")
	_, _ = fmt.Fprintf(w, "support_analytics_last_build_duration_ms %d\n", m.lastBuildDurationMs.Load())
}
