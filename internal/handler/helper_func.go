package handler

import (
	"net/http"

	"rtbf-service/internal/middleware"
)

// --- Helper: Extract user ID from context ---
func (h *RTBFHandler) getUserFromContext(r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
