// Package httputil renders domain errors and pagination parameters for the
// HTTP layer.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/actionserver/internal/errors"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// HandleErrorGin maps a domain error to its HTTP status and JSON body, logs
// the full chain, and writes the response. Handlers call it with whatever a
// use case returned; the sentinel wrapped deepest decides the rendering.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode, response := classify(err)

	// The response body hides server-side detail; the log keeps it.
	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", response.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, response)
}

// classify picks the status code and body for a domain error. Client-caused
// classes surface the wrapped message; server-side classes get a canned one.
func classify(err error) (int, ErrorResponse) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "The requested resource was not found",
		}

	case apperrors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: "A conflict occurred with existing data",
		}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		// Envelope decode failures land here. The message carries only
		// structural detail, never key material or plaintext.
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		}

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication is required",
		}

	case apperrors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "You don't have permission to access this resource",
		}

	case apperrors.Is(err, apperrors.ErrConfiguration):
		// Operator problem, not a client problem.
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "configuration_error",
			Message: "The server is not configured for this operation",
		}

	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		}
	}
}

// HandleBadRequestGin writes a 400 for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 422 for input that parsed but failed
// validation.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
