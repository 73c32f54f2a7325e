package errors

import (
	"errors"
	"fmt"
)

// Domain errors - these represent data-source and data-quality conditions.
var (
	// Data source
	ErrDataSourceUnavailable = errors.New("data source unavailable")
	ErrRelationMissing       = errors.New("expected relation missing from data source")

	// Data quality
	ErrStatusCardinality = errors.New("ticket status events violate one-active-one-inactive assumption")
	ErrCompanyMissing    = errors.New("ticket references an unknown company")

	// Query validation
	ErrInvalidSizeCategory = errors.New("size category must be one of all, small, large")
	ErrInvalidMonth        = errors.New("month must be a full English month name or all")
	ErrInvalidDateRange    = errors.New("date range is malformed or inverted")

	// Generic
	ErrNotFound   = errors.New("resource not found")
	ErrInternal   = errors.New("internal server error")
	ErrBadRequest = errors.New("bad request")
)

// DataSourceError wraps a failure to read one of the source relations. The
// whole build aborts on it; a partial table is never returned.
type DataSourceError struct {
	Relation string
	Err      error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("loading relation %q: %v", e.Relation, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// NewDataSourceError tags an underlying read failure with the relation name.
func NewDataSourceError(relation string, err error) *DataSourceError {
	return &DataSourceError{Relation: relation, Err: err}
}

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewUnavailableError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "The analytics data source is unavailable",
		Code:       "DATA_SOURCE_UNAVAILABLE",
		StatusCode: 503,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}
