package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/lorrc/support-analytics-backend/internal/adapters/primary/http/middleware"
	apperrors "github.com/lorrc/support-analytics-backend/internal/core/errors"
)

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	return mw.GetRequestID(ctx)
}

// ErrorResponse is the standard JSON error response format
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler with the given logger
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle processes an error and writes the appropriate HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	requestID := GetRequestID(r.Context())

	// Check for AppError first (our custom error type)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		h.logError(r, appErr.StatusCode, appErr.Err, requestID)
		h.writeErrorResponse(w, appErr.StatusCode, ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		})
		return
	}

	// Map known domain errors to HTTP responses
	statusCode, response := h.mapDomainError(err)
	h.logError(r, statusCode, err, requestID)
	h.writeErrorResponse(w, statusCode, response)
}

// mapDomainError converts domain errors to HTTP status codes and responses.
// A data-source failure must surface as a user-visible failure state, never
// as a partial table.
func (h *ErrorHandler) mapDomainError(err error) (int, ErrorResponse) {
	var dsErr *apperrors.DataSourceError
	if errors.As(err, &dsErr) {
		return http.StatusServiceUnavailable, ErrorResponse{
			Error: "The analytics data source is unavailable",
			Code:  "DATA_SOURCE_UNAVAILABLE",
		}
	}

	switch {
	case errors.Is(err, apperrors.ErrDataSourceUnavailable):
		return http.StatusServiceUnavailable, ErrorResponse{
			Error: "The analytics data source is unavailable",
			Code:  "DATA_SOURCE_UNAVAILABLE",
		}
	case errors.Is(err, apperrors.ErrInvalidSizeCategory),
		errors.Is(err, apperrors.ErrInvalidMonth),
		errors.Is(err, apperrors.ErrInvalidDateRange),
		errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "BAD_REQUEST",
		}
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: "Resource not found",
			Code:  "NOT_FOUND",
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: "An unexpected error occurred",
			Code:  "INTERNAL_ERROR",
		}
	}
}

// logError logs the error with request context
func (h *ErrorHandler) logError(r *http.Request, statusCode int, err error, requestID string) {
	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status", statusCode,
		"error", err,
	}
	if requestID != "" {
		attrs = append(attrs, "request_id", requestID)
	}

	if statusCode >= 500 {
		h.logger.Error("request failed", attrs...)
	} else {
		h.logger.Warn("request rejected", attrs...)
	}
}

func (h *ErrorHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, response ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}
