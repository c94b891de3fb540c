package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sterlingbank/banking-api/internal/domain"
)

// ListPayeesHandler returns the requester's active payees.
func (h *Handlers) ListPayeesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	payees, err := h.service.ListPayees(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "list_payees", err)
		return
	}
	if payees == nil {
		payees = []domain.Payee{}
	}

	writeJSON(w, http.StatusOK, payees)
}

// AddPayeeHandler creates a payee.
func (h *Handlers) AddPayeeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	var req domain.AddPayeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payee, err := h.service.AddPayee(r.Context(), userID, req, requestMeta(r))
	if err != nil {
		writeServiceError(w, "add_payee", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Payee added successfully",
		"payee":   payee,
	})
}

// DeletePayeeHandler soft deletes a payee.
func (h *Handlers) DeletePayeeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	payeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payee id")
		return
	}

	if err := h.service.DeletePayee(r.Context(), userID, payeeID, requestMeta(r)); err != nil {
		writeServiceError(w, "delete_payee", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Payee deleted successfully"})
}
