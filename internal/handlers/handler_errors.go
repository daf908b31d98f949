package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plarivier/corebank/internal/apperrors"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondWithServiceError maps service-layer errors to HTTP responses. The
// sentinel wrapped into the error decides the status; the outer message is
// returned as-is so callers see what was wrong without internal detail.
func respondWithServiceError(c *gin.Context, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperrors.ErrForbidden):
		status, message = http.StatusForbidden, "Forbidden"
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		status, message = http.StatusUnprocessableEntity, "Insufficient funds"
	}

	if status == http.StatusInternalServerError {
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
	}
	c.JSON(status, ErrorResponse{Error: message})
}
