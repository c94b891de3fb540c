/**
 * @description
 * This file contains the shared plumbing for the HTTP handlers: the Handlers
 * struct, JSON response helpers, and the mapping from service errors to HTTP
 * status codes. Handlers parse requests, call the application service, and
 * write responses; they contain no business logic.
 *
 * @dependencies
 * - encoding/json, net/http: Standard Go libraries.
 * - internal/app, internal/domain, internal/store: For service logic, models, and custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/sterlingbank/banking-api/internal/app"
	"github.com/sterlingbank/banking-api/internal/domain"
	"github.com/sterlingbank/banking-api/internal/store"
)

// Handlers holds the application service that handlers will use.
type Handlers struct {
	service *app.Service
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(service *app.Service) *Handlers {
	return &Handlers{service: service}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			log.Printf("level=error component=api msg=\"response encode failed\" err=%v", err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service- and store-level errors to HTTP responses.
// Unrecognized errors become a generic 500: internal detail is logged server
// side and never shown to the client.
func writeServiceError(w http.ResponseWriter, endpoint string, err error) {
	switch {
	case errors.Is(err, app.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, app.ErrInvalidTransactionPassword):
		writeError(w, http.StatusUnauthorized, "Invalid transaction password")
	case errors.Is(err, store.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, "Insufficient balance")
	case errors.Is(err, store.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "Account not found")
	case errors.Is(err, store.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, store.ErrPayeeNotFound):
		writeError(w, http.StatusNotFound, "Payee not found")
	case errors.Is(err, store.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, store.ErrPayeeExists):
		writeError(w, http.StatusConflict, "Payee already exists")
	default:
		log.Printf("level=error component=api endpoint=%s msg=\"request failed\" err=%v", endpoint, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// requestMeta captures the originating address and client descriptor for the
// audit trail.
func requestMeta(r *http.Request) domain.RequestMeta {
	return domain.RequestMeta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}
}
