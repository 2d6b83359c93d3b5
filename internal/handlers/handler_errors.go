package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/apperrors"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/middleware"
)

// handleServiceError maps service errors onto HTTP responses. Validation
// failures and duplicates surface their message; anything unexpected is
// logged and hidden behind a generic 500.
func handleServiceError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// requireUserID pulls the authenticated user id from the request context,
// aborting with 401 when the auth middleware did not run.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
