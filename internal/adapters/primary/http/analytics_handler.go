package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	apperrors "github.com/lorrc/support-analytics-backend/internal/core/errors"
	"github.com/lorrc/support-analytics-backend/internal/core/ports"
)

// AnalyticsHandler serves the dashboard consumer contract: the filterable
// per-ticket table, the zero-filled daily series and the zone summary.
type AnalyticsHandler struct {
	dashboard    ports.DashboardService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(dashboard ports.DashboardService, errorHandler *ErrorHandler, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		dashboard:    dashboard,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "analytics"),
	}
}

// RegisterRoutes registers the analytics routes.
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tickets", h.HandleTickets)
	r.Get("/timeseries", h.HandleTimeSeries)
	r.Get("/summary", h.HandleSummary)
}

// HandleTickets handles GET /analytics/tickets
func (h *AnalyticsHandler) HandleTickets(w http.ResponseWriter, r *http.Request) {
	params, err := parseFilterParams(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	records, err := h.dashboard.FilterTickets(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, records)
}

// HandleTimeSeries handles GET /analytics/timeseries
func (h *AnalyticsHandler) HandleTimeSeries(w http.ResponseWriter, r *http.Request) {
	params, err := parseFilterParams(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	series, err := h.dashboard.DailySeries(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, series)
}

// HandleSummary handles GET /analytics/summary
func (h *AnalyticsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	params, err := parseFilterParams(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	summary, err := h.dashboard.Summary(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// parseFilterParams reads the shared query parameters: size, month, from, to.
// Dates are day-granular, layout 2006-01-02, inclusive on both ends.
func parseFilterParams(r *http.Request) (ports.FilterParams, error) {
	query := r.URL.Query()

	params := ports.FilterParams{
		SizeCategory: query.Get("size"),
		Month:        query.Get("month"),
	}

	if raw := query.Get("from"); raw != "" {
		from, err := parseDay(raw)
		if err != nil {
			return ports.FilterParams{}, err
		}
		params.From = &from
	}

	if raw := query.Get("to"); raw != "" {
		to, err := parseDay(raw)
		if err != nil {
			return ports.FilterParams{}, err
		}
		params.To = &to
	}

	return params, nil
}

func parseDay(raw string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, apperrors.NewBadRequestError(
			apperrors.ErrInvalidDateRange,
			fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", raw),
		)
	}
	return day, nil
}
