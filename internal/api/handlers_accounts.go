package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sterlingbank/banking-api/internal/domain"
)

// ListAccountsHandler returns the requester's active accounts.
func (h *Handlers) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	accounts, err := h.service.ListAccounts(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "list_accounts", err)
		return
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}

	writeJSON(w, http.StatusOK, accounts)
}

// GetAccountHandler returns one of the requester's active accounts.
func (h *Handlers) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid account id")
		return
	}

	account, err := h.service.GetAccount(r.Context(), userID, accountID)
	if err != nil {
		writeServiceError(w, "get_account", err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}
