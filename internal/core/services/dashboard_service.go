package services

import (
	"context"
	"time"

	"github.com/lorrc/support-analytics-backend/internal/core/domain"
	apperrors "github.com/lorrc/support-analytics-backend/internal/core/errors"
	"github.com/lorrc/support-analytics-backend/internal/core/ports"
)

// DashboardQueryService implements the consumer contract over the analytic
// table: company-size and month filters, an inclusive date range, and daily
// resampling with zero-filled gaps. Every query rebuilds the table from a
// fresh snapshot; derived results are never cached between requests.
type DashboardQueryService struct {
	builder ports.AnalyticsBuilder
}

var _ ports.DashboardService = (*DashboardQueryService)(nil)

// NewDashboardQueryService creates a new dashboard query service.
func NewDashboardQueryService(builder ports.AnalyticsBuilder) *DashboardQueryService {
	return &DashboardQueryService{builder: builder}
}

// FilterTickets returns the per-ticket rows matching the given filters.
// An empty result is a valid, displayable state.
func (s *DashboardQueryService) FilterTickets(ctx context.Context, params ports.FilterParams) ([]domain.AnalyticRecord, error) {
	if err := validateFilters(params); err != nil {
		return nil, err
	}

	result, err := s.builder.BuildTable(ctx)
	if err != nil {
		return nil, err
	}

	return applyFilters(result.Dashboard, params), nil
}

// DailySeries resamples the filtered table by calendar day. Days inside the
// range with no tickets appear with a zero count and no zone sums; when the
// caller gives no range, it spans from the first to the last ticket day of
// the filtered set.
func (s *DashboardQueryService) DailySeries(ctx context.Context, params ports.FilterParams) ([]domain.DailyPoint, error) {
	filtered, err := s.FilterTickets(ctx, params)
	if err != nil {
		return nil, err
	}

	from, to, ok := seriesRange(filtered, params)
	if !ok {
		return []domain.DailyPoint{}, nil
	}

	return resampleDaily(filtered, from, to), nil
}

// Summary aggregates the filtered set into zone totals and a mean wait.
func (s *DashboardQueryService) Summary(ctx context.Context, params ports.FilterParams) (*domain.ZoneSummary, error) {
	filtered, err := s.FilterTickets(ctx, params)
	if err != nil {
		return nil, err
	}

	summary := &domain.ZoneSummary{TicketCount: len(filtered)}
	var waitSum float64
	for _, rec := range filtered {
		waitSum += rec.WaitMinutes
		switch rec.WaitingZone {
		case domain.ZoneGreen:
			summary.GreenCount++
		case domain.ZoneAmber:
			summary.AmberCount++
		case domain.ZoneRed:
			summary.RedCount++
		}
	}
	if summary.TicketCount > 0 {
		summary.MeanWait = waitSum / float64(summary.TicketCount)
	}

	return summary, nil
}

func validateFilters(params ports.FilterParams) error {
	switch params.SizeCategory {
	case "", "all", string(domain.SizeSmall), string(domain.SizeLarge):
	default:
		return apperrors.NewBadRequestError(apperrors.ErrInvalidSizeCategory, "Invalid size category filter")
	}

	if params.Month != "" && params.Month != "all" {
		if _, ok := monthsByName[params.Month]; !ok {
			return apperrors.NewBadRequestError(apperrors.ErrInvalidMonth, "Invalid month filter")
		}
	}

	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		return apperrors.NewBadRequestError(apperrors.ErrInvalidDateRange, "Date range end precedes start")
	}

	return nil
}

var monthsByName = func() map[string]time.Month {
	byName := make(map[string]time.Month, 12)
	for m := time.January; m <= time.December; m++ {
		byName[m.String()] = m
	}
	return byName
}()

func applyFilters(records []domain.AnalyticRecord, params ports.FilterParams) []domain.AnalyticRecord {
	sizeFilter := params.SizeCategory != "" && params.SizeCategory != "all"
	monthFilter := params.Month != "" && params.Month != "all"

	filtered := make([]domain.AnalyticRecord, 0, len(records))
	for _, rec := range records {
		if sizeFilter && string(rec.SizeCategory) != params.SizeCategory {
			continue
		}
		if monthFilter && rec.CreatedAt.Month() != monthsByName[params.Month] {
			continue
		}
		if params.From != nil && rec.CreatedAt.Before(startOfDay(*params.From)) {
			continue
		}
		if params.To != nil && !rec.CreatedAt.Before(startOfDay(*params.To).AddDate(0, 0, 1)) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

// seriesRange resolves the day range for a resample: explicit bounds win,
// otherwise the filtered data's extent. Returns ok=false when neither the
// params nor the data define a range.
func seriesRange(records []domain.AnalyticRecord, params ports.FilterParams) (time.Time, time.Time, bool) {
	var from, to time.Time

	if params.From != nil {
		from = startOfDay(*params.From)
	}
	if params.To != nil {
		to = startOfDay(*params.To)
	}

	if from.IsZero() || to.IsZero() {
		if len(records) == 0 {
			return time.Time{}, time.Time{}, false
		}
		minDay := startOfDay(records[0].CreatedAt)
		maxDay := minDay
		for _, rec := range records[1:] {
			day := startOfDay(rec.CreatedAt)
			if day.Before(minDay) {
				minDay = day
			}
			if day.After(maxDay) {
				maxDay = day
			}
		}
		if from.IsZero() {
			from = minDay
		}
		if to.IsZero() {
			to = maxDay
		}
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// resampleDaily walks every calendar day in [from, to], emitting zero-filled
// points for days absent from the data so the series is fully regular.
func resampleDaily(records []domain.AnalyticRecord, from, to time.Time) []domain.DailyPoint {
	byDay := make(map[time.Time]*domain.DailyPoint)
	waitSums := make(map[time.Time]float64)

	for _, rec := range records {
		day := startOfDay(rec.CreatedAt)
		point, ok := byDay[day]
		if !ok {
			point = &domain.DailyPoint{Day: day}
			byDay[day] = point
		}
		point.TicketCount++
		waitSums[day] += rec.WaitMinutes
		switch rec.WaitingZone {
		case domain.ZoneGreen:
			point.GreenCount++
		case domain.ZoneAmber:
			point.AmberCount++
		case domain.ZoneRed:
			point.RedCount++
		}
	}

	series := make([]domain.DailyPoint, 0, int(to.Sub(from).Hours()/24)+1)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if point, ok := byDay[day]; ok {
			point.MeanWait = waitSums[day] / float64(point.TicketCount)
			series = append(series, *point)
			continue
		}
		series = append(series, domain.DailyPoint{Day: day})
	}
	return series
}

// startOfDay truncates to a UTC calendar day so map keys and range bounds
// compare consistently regardless of the source timestamp's zone.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
