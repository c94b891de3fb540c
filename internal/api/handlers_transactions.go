package api

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sterlingbank/banking-api/internal/domain"
)

// SendMoneyHandler initiates a transfer. The response carries the `pending`
// transaction; settlement happens out of band and is never awaited here.
func (h *Handlers) SendMoneyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	var req domain.SendMoneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.SendMoney(r.Context(), userID, req, requestMeta(r))
	if err != nil {
		writeServiceError(w, "send_money", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Transaction initiated successfully",
		"transaction": result,
	})
}

// ListTransactionsHandler returns one page of the requester's transaction history.
func (h *Handlers) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	opts := domain.TransactionListOptions{
		Status: r.URL.Query().Get("status"),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 20),
	}

	items, total, err := h.service.ListTransactions(r.Context(), userID, opts)
	if err != nil {
		writeServiceError(w, "list_transactions", err)
		return
	}
	if items == nil {
		items = []domain.TransactionListItem{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": items,
		"pagination":   buildPagination(opts.Page, opts.Limit, total),
	})
}

// GetTransactionHandler returns one transaction with its status history.
func (h *Handlers) GetTransactionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	transactionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}

	detail, err := h.service.GetTransaction(r.Context(), userID, transactionID)
	if err != nil {
		writeServiceError(w, "get_transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func buildPagination(page, limit, total int) domain.Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return domain.Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}
