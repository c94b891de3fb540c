package api

import (
	"encoding/json"
	"net/http"

	"github.com/sterlingbank/banking-api/internal/domain"
)

// GetProfileHandler returns the requester's profile.
func (h *Handlers) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "get_profile", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateProfileHandler updates the requester's full name and email.
func (h *Handlers) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, req, requestMeta(r))
	if err != nil {
		writeServiceError(w, "update_profile", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// ChangePasswordHandler rotates the login password and revokes all sessions.
func (h *Handlers) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	var req domain.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, req, requestMeta(r)); err != nil {
		writeServiceError(w, "change_password", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully. Please login again."})
}

// DashboardHandler returns the aggregated landing-screen view.
func (h *Handlers) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	dashboard, err := h.service.GetDashboard(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "dashboard", err)
		return
	}

	writeJSON(w, http.StatusOK, dashboard)
}

// ListAuditLogsHandler returns one page of the requester's audit trail.
func (h *Handlers) ListAuditLogsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	logs, total, err := h.service.ListAuditLogs(r.Context(), userID, page, limit)
	if err != nil {
		writeServiceError(w, "list_audit_logs", err)
		return
	}
	if logs == nil {
		logs = []domain.AuditEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"logs":       logs,
		"pagination": buildPagination(page, limit, total),
	})
}
