// Package handlers provides the HTTP handlers for the graph API.
package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"kinship-backend/pkg/api"
	"kinship-backend/pkg/auth"
	appErrors "kinship-backend/pkg/errors"
)

// getUserID safely extracts the authenticated user id from the request
// context, where Authenticator stored it.
func getUserID(r *http.Request) (string, bool) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	return userID, err == nil
}

// handleServiceError converts service errors to appropriate HTTP responses
func handleServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case appErrors.IsValidation(err):
		api.Error(w, http.StatusBadRequest, err.Error())
	case appErrors.IsNotFound(err):
		api.Error(w, http.StatusNotFound, err.Error())
	case appErrors.IsConflict(err):
		api.Error(w, http.StatusConflict, err.Error())
	case isTimeoutError(err):
		logger.Warn("request timed out", zap.Error(err))
		api.Error(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
	default:
		// Log full details, hide them from the client.
		logger.Error("internal error", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "An internal error occurred")
	}
}

// isTimeoutError checks if the error is related to timeouts
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "context deadline exceeded") ||
		strings.Contains(errStr, "i/o timeout")
}
