package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a customer ledger account.
// Balances are stored as int64 in pence (the smallest currency unit) to avoid
// floating-point inaccuracies with financial data. Accounts are never deleted;
// they are deactivated via IsActive.
type Account struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	AccountNumber string    `json:"account_number"`
	SortCode      string    `json:"sort_code"`
	AccountName   string    `json:"account_name"`
	Balance       int64     `json:"balance"` // in pence
	AccountType   string    `json:"account_type"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
