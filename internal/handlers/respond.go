package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gochicken/gochicken_backend/internal/apperrors"
)

// respondError translates service errors into HTTP status codes. Validation
// failures and floor violations map to 422, missing records to 404, business
// preconditions to 403, uniqueness races to 409, everything else to 500.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInsufficientStock):
		logger.Warn(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
