package api

import (
	"encoding/json"
	"net/http"

	"github.com/sterlingbank/banking-api/internal/domain"
)

// LoginHandler authenticates a username/password pair and returns a session token.
func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), req, requestMeta(r))
	if err != nil {
		writeServiceError(w, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

// LogoutHandler deactivates the presented session.
func (h *Handlers) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}
	token, ok := SessionTokenFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get session token from context")
		return
	}

	if err := h.service.Logout(r.Context(), userID, token, requestMeta(r)); err != nil {
		writeServiceError(w, "logout", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// VerifyTransactionPasswordHandler checks the transfer credential without
// initiating a transfer. Clients call it to pre-validate before showing the
// confirmation screen.
func (h *Handlers) VerifyTransactionPasswordHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	var req struct {
		TransactionPassword string `json:"transaction_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TransactionPassword == "" {
		writeError(w, http.StatusBadRequest, "Transaction password is required")
		return
	}

	if err := h.service.VerifyTransactionPassword(r.Context(), userID, req.TransactionPassword, requestMeta(r)); err != nil {
		writeServiceError(w, "verify_transaction_password", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction password verified successfully"})
}
