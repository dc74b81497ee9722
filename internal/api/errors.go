// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/chart-builder/backend/internal/export"
	"github.com/chart-builder/backend/internal/session"
	"github.com/chart-builder/backend/internal/trend"
	"github.com/labstack/echo/v4"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error constructors for consistent error handling

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewIncompatibleSourceError creates a 422 error for a source document that
// could not be read as a trend export
func NewIncompatibleSourceError() *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Code:    "SOURCE_INCOMPATIBLE",
		Message: "the file is not compatible or was not chosen",
	}
}

// NewExportError creates a 500 error carrying the operator-facing export
// message
func NewExportError(err error) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "RENDER_OR_WRITE_FAILURE",
		Message: export.Message("", err),
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewServiceUnavailableError creates a 503 Service Unavailable error
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Status:  http.StatusServiceUnavailable,
		Code:    "SERVICE_UNAVAILABLE",
		Message: message,
	}
}

// fromDomainError maps editing errors to API errors. Unknown errors become
// internal errors.
func fromDomainError(err error) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, trend.ErrIndexOutOfRange):
		return &APIError{Status: http.StatusBadRequest, Code: "INDEX_OUT_OF_RANGE", Message: err.Error()}
	case errors.Is(err, trend.ErrInvalidColor), errors.Is(err, trend.ErrInvalidDisplayType):
		return &APIError{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: err.Error()}
	case errors.Is(err, export.ErrVersionParse):
		return &APIError{Status: http.StatusBadRequest, Code: "VERSION_PARSE_ERROR", Message: err.Error()}
	case errors.Is(err, session.ErrUnknownGroup):
		return &APIError{Status: http.StatusBadRequest, Code: "UNKNOWN_GROUP", Message: err.Error()}
	}
	var rw *export.RenderOrWriteError
	if errors.As(err, &rw) {
		return NewExportError(err)
	}
	return NewInternalError("unexpected error", err)
}

// ErrorHandler middleware for Echo
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{
			Status:  e.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", e.Message),
		}
	default:
		apiErr = &APIError{
			Status:  http.StatusInternalServerError,
			Code:    "UNKNOWN_ERROR",
			Message: "An unexpected error occurred",
			Details: err.Error(),
		}
	}

	c.JSON(apiErr.Status, apiErr)
}
