package domain

import (
	"time"

	"github.com/google/uuid"
)

// Payee represents a saved destination for transfers. Payees are soft-deleted
// via IsActive so that historic transfers keep a resolvable destination.
type Payee struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"-"`
	PayeeName     string    `json:"payee_name"`
	AccountNumber string    `json:"account_number"`
	SortCode      string    `json:"sort_code"`
	BankName      string    `json:"bank_name,omitempty"`
	Nickname      string    `json:"nickname,omitempty"`
	IsActive      bool      `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// AddPayeeRequest is the DTO for creating a payee.
type AddPayeeRequest struct {
	PayeeName     string `json:"payee_name"`
	AccountNumber string `json:"account_number"`
	SortCode      string `json:"sort_code"`
	BankName      string `json:"bank_name"`
	Nickname      string `json:"nickname"`
}
