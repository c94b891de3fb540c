/**
 * @description
 * This file defines the core domain models for money movement: the transaction
 * ledger record, its append-only status history, and the DTOs used by the
 * send-money flow.
 *
 * @notes
 * - Amounts are stored as `int64` in pence to avoid floating-point inaccuracies.
 * - A transaction's destination is addressed by account number + sort code and
 *   may be external to this bank; no destination account row is required and no
 *   destination ledger row is ever credited.
 * - Status moves forward only: pending -> completed, or pending -> failed.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction statuses.
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Transaction represents one outbound money movement from a local account.
// This struct maps directly to the `transactions` table.
type Transaction struct {
	ID              uuid.UUID  `json:"id"`
	Reference       string     `json:"transaction_ref"`
	FromAccountID   uuid.UUID  `json:"from_account_id"`
	ToAccountNumber string     `json:"to_account_number"`
	ToSortCode      string     `json:"to_sort_code"`
	ToAccountName   string     `json:"to_account_name"`
	Amount          int64      `json:"amount"` // in pence
	Description     string     `json:"description,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
}

// TransactionStatusEvent is one append-only entry in a transaction's status
// history. It maps to the `transaction_status_history` table and is never
// mutated or deleted.
type TransactionStatusEvent struct {
	ID            uuid.UUID  `json:"id"`
	TransactionID uuid.UUID  `json:"transaction_id"`
	Status        string     `json:"status"`
	Reason        *string    `json:"reason,omitempty"`
	CreatedBy     *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// SendMoneyRequest is the DTO for the send-money endpoint.
type SendMoneyRequest struct {
	FromAccountID       uuid.UUID `json:"from_account_id"`
	ToAccountNumber     string    `json:"to_account_number"`
	ToSortCode          string    `json:"to_sort_code"`
	ToAccountName       string    `json:"to_account_name"`
	Amount              int64     `json:"amount"` // in pence
	Description         string    `json:"description"`
	TransactionPassword string    `json:"transaction_password"`
}

// TransferResult is returned to the caller immediately after a transfer has been
// accepted. The transaction is still `pending` at this point; settlement happens
// out of band.
type TransferResult struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Reference     string    `json:"transaction_ref"`
	Amount        int64     `json:"amount"`
	ToAccountName string    `json:"to_account_name"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// TransactionListItem is a transaction joined with its source account details,
// as returned by the history endpoints.
type TransactionListItem struct {
	Transaction
	FromAccountNumber string `json:"from_account_number"`
	FromAccountName   string `json:"from_account_name"`
	FromSortCode      string `json:"from_sort_code,omitempty"`
}

// TransactionDetail is a single transaction with its full status history,
// ordered oldest-first.
type TransactionDetail struct {
	TransactionListItem
	StatusHistory []TransactionStatusEvent `json:"status_history"`
}

// TransactionListOptions controls filtering and pagination of history reads.
type TransactionListOptions struct {
	Status string
	Page   int
	Limit  int
}

// DashboardTransaction is a recent transaction annotated with its direction
// relative to the requesting user's accounts.
type DashboardTransaction struct {
	Transaction
	Direction string `json:"transaction_direction"` // 'debit' or 'credit'
}
