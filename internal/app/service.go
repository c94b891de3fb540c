/**
 * @description
 * This file contains the core business logic for the banking API. The `Service`
 * struct orchestrates every operation, coordinating between the database
 * repository, the message broker, and the audit trail.
 *
 * Key features:
 * - Implements the send-money transfer engine (see transfer.go) and its
 *   deferred settlement step.
 * - Covers the supporting operations: accounts, payees, profile, dashboard,
 *   transaction history and audit-log listing.
 * - Records security- and money-relevant events in the audit log; audit writes
 *   are best-effort and never fail the operation they describe.
 *
 * @dependencies
 * - context, errors, fmt, log, time: Standard Go libraries.
 * - github.com/google/uuid: For UUID handling.
 * - internal/domain, internal/store: For domain models and data access.
 * - pkg/rabbitmq: For event publishing.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sterlingbank/banking-api/internal/domain"
	"github.com/sterlingbank/banking-api/internal/store"
	"github.com/sterlingbank/banking-api/pkg/rabbitmq"
)

var (
	// ErrValidation marks malformed, missing or non-positive input, including
	// attempted self-transfers.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials is returned for unknown users and wrong login passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidTransactionPassword is returned when the transfer-specific
	// credential does not match.
	ErrInvalidTransactionPassword = errors.New("invalid transaction password")
)

// Service provides the core business logic for the banking API.
type Service struct {
	repo            store.Repository
	eventProducer   rabbitmq.Publisher
	eventExchange   string
	jwtSecret       []byte
	sessionTTL      time.Duration
	settlementDelay time.Duration
	bcryptCost      int
}

// NewService creates a new banking service instance. The event producer may be
// nil when RabbitMQ is not configured.
func NewService(repo store.Repository, producer rabbitmq.Publisher, eventExchange, jwtSecret string, sessionTTL, settlementDelay time.Duration, bcryptCost int) *Service {
	return &Service{
		repo:            repo,
		eventProducer:   producer,
		eventExchange:   eventExchange,
		jwtSecret:       []byte(jwtSecret),
		sessionTTL:      sessionTTL,
		settlementDelay: settlementDelay,
		bcryptCost:      bcryptCost,
	}
}

// audit appends an entry to the audit log. Failures are logged and swallowed:
// the audit trail must never break the operation it records.
func (s *Service) audit(ctx context.Context, entry domain.AuditEntry, meta domain.RequestMeta) {
	entry.IPAddress = meta.IPAddress
	entry.UserAgent = meta.UserAgent
	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		log.Printf("level=error component=audit msg=\"audit log write failed\" action=%s err=%v", entry.Action, err)
	}
}

// publishEvent sends a transaction lifecycle event when a producer is configured.
func (s *Service) publishEvent(ctx context.Context, routingKey string, event rabbitmq.TransactionEvent) {
	if s.eventProducer == nil {
		return
	}
	if err := s.eventProducer.Publish(ctx, s.eventExchange, routingKey, event); err != nil {
		log.Printf("level=warn component=events msg=\"event publish failed\" routing_key=%s transaction_id=%s err=%v", routingKey, event.TransactionID, err)
	}
}

// ListAccounts retrieves the requester's active accounts.
func (s *Service) ListAccounts(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	return s.repo.FindActiveAccountsByUserID(ctx, userID)
}

// GetAccount retrieves one active account owned by the requester.
func (s *Service) GetAccount(ctx context.Context, userID, accountID uuid.UUID) (*domain.Account, error) {
	return s.repo.FindActiveAccountByID(ctx, accountID, userID)
}

// ListTransactions returns one page of the requester's transaction history.
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, opts domain.TransactionListOptions) ([]domain.TransactionListItem, int, error) {
	return s.repo.ListTransactionsByUser(ctx, userID, opts)
}

// GetTransaction returns one transaction with its status history, scoped to the
// requester's accounts. The history is ordered oldest-first.
func (s *Service) GetTransaction(ctx context.Context, userID, transactionID uuid.UUID) (*domain.TransactionDetail, error) {
	return s.repo.FindTransactionByID(ctx, transactionID, userID)
}

// ListPayees retrieves the requester's active payees.
func (s *Service) ListPayees(ctx context.Context, userID uuid.UUID) ([]domain.Payee, error) {
	return s.repo.FindActivePayeesByUserID(ctx, userID)
}

// AddPayee creates a payee for the requester after validating the required fields.
func (s *Service) AddPayee(ctx context.Context, userID uuid.UUID, req domain.AddPayeeRequest, meta domain.RequestMeta) (*domain.Payee, error) {
	if strings.TrimSpace(req.PayeeName) == "" || strings.TrimSpace(req.AccountNumber) == "" || strings.TrimSpace(req.SortCode) == "" {
		return nil, fmt.Errorf("%w: payee name, account number, and sort code are required", ErrValidation)
	}

	payee, err := s.repo.CreatePayee(ctx, &domain.Payee{
		UserID:        userID,
		PayeeName:     strings.TrimSpace(req.PayeeName),
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		SortCode:      strings.TrimSpace(req.SortCode),
		BankName:      strings.TrimSpace(req.BankName),
		Nickname:      strings.TrimSpace(req.Nickname),
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, domain.AuditEntry{
		UserID:    &userID,
		Action:    domain.AuditPayeeAdded,
		TableName: "payees",
		RecordID:  &payee.ID,
		NewValues: map[string]interface{}{
			"payee_name":     payee.PayeeName,
			"account_number": payee.AccountNumber,
			"sort_code":      payee.SortCode,
			"bank_name":      payee.BankName,
			"nickname":       payee.Nickname,
		},
	}, meta)

	return payee, nil
}

// DeletePayee soft deletes one of the requester's payees, recording the removed
// values in the audit trail.
func (s *Service) DeletePayee(ctx context.Context, userID, payeeID uuid.UUID, meta domain.RequestMeta) error {
	payee, err := s.repo.FindActivePayeeByID(ctx, payeeID, userID)
	if err != nil {
		return err
	}
	if err := s.repo.DeactivatePayee(ctx, payeeID, userID); err != nil {
		return err
	}

	s.audit(ctx, domain.AuditEntry{
		UserID:    &userID,
		Action:    domain.AuditPayeeDeleted,
		TableName: "payees",
		RecordID:  &payee.ID,
		OldValues: map[string]interface{}{
			"payee_name":     payee.PayeeName,
			"account_number": payee.AccountNumber,
			"sort_code":      payee.SortCode,
			"bank_name":      payee.BankName,
			"nickname":       payee.Nickname,
		},
	}, meta)

	return nil
}

// GetProfile returns the requester's profile.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.repo.FindActiveUserByID(ctx, userID)
}

// UpdateProfile updates the requester's full name and email, auditing the old
// and new values.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req domain.UpdateProfileRequest, meta domain.RequestMeta) (*domain.User, error) {
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("%w: full name and email are required", ErrValidation)
	}

	current, err := s.repo.FindActiveUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProfile(ctx, userID, strings.TrimSpace(req.FullName), strings.TrimSpace(req.Email))
	if err != nil {
		return nil, err
	}

	s.audit(ctx, domain.AuditEntry{
		UserID:    &userID,
		Action:    domain.AuditProfileUpdated,
		TableName: "users",
		RecordID:  &userID,
		OldValues: map[string]interface{}{"full_name": current.FullName, "email": current.Email},
		NewValues: map[string]interface{}{"full_name": updated.FullName, "email": updated.Email},
	}, meta)

	return updated, nil
}

// GetDashboard aggregates the landing-screen view: active accounts, the ten
// most recent transactions touching the requester's accounts, and the active
// payee count.
func (s *Service) GetDashboard(ctx context.Context, userID uuid.UUID) (*domain.Dashboard, error) {
	user, err := s.repo.FindActiveUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	accounts, err := s.repo.FindActiveAccountsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	recent, err := s.repo.FindRecentTransactionsByUser(ctx, userID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}

	payeeCount, err := s.repo.CountActivePayees(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count payees: %w", err)
	}

	return &domain.Dashboard{
		User: domain.UserSummary{
			ID:       user.ID,
			Username: user.Username,
			FullName: user.FullName,
		},
		Accounts:           accounts,
		RecentTransactions: recent,
		PayeesCount:        payeeCount,
	}, nil
}

// ListAuditLogs returns one page of the requester's audit trail, newest first.
func (s *Service) ListAuditLogs(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.AuditEntry, int, error) {
	return s.repo.ListAuditLogsByUser(ctx, userID, page, limit)
}
