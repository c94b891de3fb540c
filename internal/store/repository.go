/**
 * @description
 * This file defines the `Repository` interface, which specifies the contract for
 * all data access operations required by the banking API. Defining an interface
 * decouples the business logic from the PostgreSQL implementation and lets tests
 * substitute in-memory fakes.
 *
 * @dependencies
 * - context, time: Standard Go libraries.
 * - github.com/google/uuid: For entity identifiers.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sterlingbank/banking-api/internal/domain"
)

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// User and credential methods
	FindActiveUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindActiveUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, fullName, email string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error

	// Session methods
	CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	FindActiveSessionByToken(ctx context.Context, token string) (*domain.Session, error)
	DeactivateSession(ctx context.Context, token string) error
	DeactivateUserSessions(ctx context.Context, userID uuid.UUID) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)

	// Account methods
	FindActiveAccountsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Account, error)
	FindActiveAccountByID(ctx context.Context, accountID, userID uuid.UUID) (*domain.Account, error)

	// Transfer engine methods. CreateTransferAtomic performs the balance check,
	// the debit, the transaction insert and the pending status event as one
	// database transaction with the source account row locked.
	CreateTransferAtomic(ctx context.Context, params TransferParams) (*domain.Transaction, error)
	SettleTransaction(ctx context.Context, transactionID uuid.UUID, reason string) (bool, error)

	// Transaction history methods
	ListTransactionsByUser(ctx context.Context, userID uuid.UUID, opts domain.TransactionListOptions) ([]domain.TransactionListItem, int, error)
	FindTransactionByID(ctx context.Context, transactionID, userID uuid.UUID) (*domain.TransactionDetail, error)
	FindRecentTransactionsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.DashboardTransaction, error)

	// Payee methods
	FindActivePayeesByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Payee, error)
	FindActivePayeeByID(ctx context.Context, payeeID, userID uuid.UUID) (*domain.Payee, error)
	CreatePayee(ctx context.Context, payee *domain.Payee) (*domain.Payee, error)
	DeactivatePayee(ctx context.Context, payeeID, userID uuid.UUID) error
	CountActivePayees(ctx context.Context, userID uuid.UUID) (int, error)

	// Audit methods
	CreateAuditLog(ctx context.Context, entry domain.AuditEntry) error
	ListAuditLogsByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.AuditEntry, int, error)
}

// TransferParams carries everything the atomic transfer insert needs. The
// reference is generated by the caller so that it can appear in the audit trail
// and the API response without a second read.
type TransferParams struct {
	UserID          uuid.UUID
	FromAccountID   uuid.UUID
	ToAccountNumber string
	ToSortCode      string
	ToAccountName   string
	Amount          int64
	Description     string
	Reference       string
}
