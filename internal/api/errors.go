package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/docktiles/docktiles/internal/docker"
)

// APIError represents a structured API error with HTTP status code.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// NewAPIError creates a new API error.
func NewAPIError(code int, message string, details string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

func NotFoundError(name string) *APIError {
	return NewAPIError(http.StatusNotFound, "container not found", name)
}

func RuntimeError(err error) *APIError {
	return NewAPIError(http.StatusInternalServerError, "container runtime error", err.Error())
}

// HTTPErrorHandler is a custom error handler for Echo. Runtime adapter
// errors map to their closest status code; everything else falls
// through to 500.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	switch {
	case errors.As(err, &apiErr):
		// Already shaped.
	case errors.Is(err, docker.ErrNotFound):
		apiErr = NewAPIError(http.StatusNotFound, "container not found", err.Error())
	case errors.Is(err, docker.ErrUnavailable):
		apiErr = RuntimeError(err)
	default:
		if he, ok := err.(*echo.HTTPError); ok {
			apiErr = &APIError{
				Code:    he.Code,
				Message: http.StatusText(he.Code),
				Details: fmt.Sprintf("%v", he.Message),
			}
		} else {
			apiErr = &APIError{
				Code:    http.StatusInternalServerError,
				Message: "Internal server error",
				Details: err.Error(),
			}
			// Don't expose unclassified internals in production
			if !c.Echo().Debug {
				apiErr.Details = "An internal error occurred. Please try again later."
			}
		}
	}

	if err := c.JSON(apiErr.Code, apiErr); err != nil {
		c.Logger().Error(err)
	}
}
