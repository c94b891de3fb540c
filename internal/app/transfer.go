/**
 * @description
 * The transfer engine: validation, the atomic debit-and-record unit, and the
 * deferred settlement step that moves a transaction from `pending` to
 * `completed`.
 *
 * The initiation path blocks the caller until the database transaction commits;
 * settlement runs on an independent timer with no handle returned to the
 * caller. Settlement is best-effort: a failure leaves the transaction
 * `pending`, is logged, and is not retried.
 *
 * @dependencies
 * - crypto/rand: Entropy for transaction references.
 * - internal/domain, internal/store: Domain models and the atomic store operations.
 */

package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
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

const settledReason = "Transaction processed successfully"

// SendMoney validates and executes a transfer from one of the requester's
// accounts to a destination addressed by account number and sort code. The
// destination may be external; no destination ledger row is ever credited.
//
// Checks run in order, first failure wins:
//  1. required fields present and amount positive
//  2. transaction password matches
//  3. source account exists, is active, and belongs to the requester
//  4. balance covers the amount
//  5. destination differs from the source account itself
//
// On success the transaction is `pending`; settlement is scheduled out of band
// and the caller does not wait for it.
func (s *Service) SendMoney(ctx context.Context, userID uuid.UUID, req domain.SendMoneyRequest, meta domain.RequestMeta) (*domain.TransferResult, error) {
	if req.FromAccountID == uuid.Nil ||
		strings.TrimSpace(req.ToAccountNumber) == "" ||
		strings.TrimSpace(req.ToSortCode) == "" ||
		strings.TrimSpace(req.ToAccountName) == "" ||
		req.TransactionPassword == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
	}

	if err := s.VerifyTransactionPassword(ctx, userID, req.TransactionPassword, meta); err != nil {
		return nil, err
	}

	account, err := s.repo.FindActiveAccountByID(ctx, req.FromAccountID, userID)
	if err != nil {
		return nil, err
	}

	if account.Balance < req.Amount {
		return nil, store.ErrInsufficientFunds
	}

	if account.AccountNumber == strings.TrimSpace(req.ToAccountNumber) && account.SortCode == strings.TrimSpace(req.ToSortCode) {
		return nil, fmt.Errorf("%w: cannot send money to the same account", ErrValidation)
	}

	reference := newTransactionRef()

	// The balance is re-checked under a row lock inside the atomic unit; the
	// pre-check above only gives a friendlier fast path.
	tx, err := s.repo.CreateTransferAtomic(ctx, store.TransferParams{
		UserID:          userID,
		FromAccountID:   req.FromAccountID,
		ToAccountNumber: strings.TrimSpace(req.ToAccountNumber),
		ToSortCode:      strings.TrimSpace(req.ToSortCode),
		ToAccountName:   strings.TrimSpace(req.ToAccountName),
		Amount:          req.Amount,
		Description:     req.Description,
		Reference:       reference,
	})
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) || errors.Is(err, store.ErrInsufficientFunds) {
			return nil, err
		}
		log.Printf("level=error component=transfer msg=\"atomic transfer failed\" user_id=%s from_account=%s err=%v", userID, req.FromAccountID, err)
		return nil, fmt.Errorf("failed to execute transfer: %w", err)
	}

	s.audit(ctx, domain.AuditEntry{
		UserID:    &userID,
		Action:    domain.AuditTransactionInitiated,
		TableName: "transactions",
		RecordID:  &tx.ID,
		NewValues: map[string]interface{}{
			"transaction_ref":   tx.Reference,
			"amount":            tx.Amount,
			"to_account_number": tx.ToAccountNumber,
			"to_sort_code":      tx.ToSortCode,
		},
	}, meta)

	s.publishEvent(ctx, rabbitmq.RoutingKeyTransactionInitiated, rabbitmq.TransactionEvent{
		TransactionID: tx.ID,
		Reference:     tx.Reference,
		Amount:        tx.Amount,
		ToAccountName: tx.ToAccountName,
		Status:        tx.Status,
		Timestamp:     tx.CreatedAt,
	})

	s.scheduleSettlement(tx.ID)

	log.Printf("level=info component=transfer msg=\"transfer initiated\" transaction_id=%s ref=%s amount=%d", tx.ID, tx.Reference, tx.Amount)

	return &domain.TransferResult{
		TransactionID: tx.ID,
		Reference:     tx.Reference,
		Amount:        tx.Amount,
		ToAccountName: tx.ToAccountName,
		Status:        tx.Status,
		CreatedAt:     tx.CreatedAt,
	}, nil
}

// scheduleSettlement arms a one-shot timer that settles the transaction after
// the configured delay. The timer is detached from the request: no handle is
// returned, and there is no cancellation or retry path.
func (s *Service) scheduleSettlement(transactionID uuid.UUID) {
	time.AfterFunc(s.settlementDelay, func() {
		s.settle(context.Background(), transactionID)
	})
}

// settle performs the deferred completion step. A transaction that is no
// longer pending is left untouched, which keeps the status machine
// forward-only even if settlement fires twice.
func (s *Service) settle(ctx context.Context, transactionID uuid.UUID) {
	settled, err := s.repo.SettleTransaction(ctx, transactionID, settledReason)
	if err != nil {
		log.Printf("level=error component=settlement msg=\"settlement failed; transaction left pending\" transaction_id=%s err=%v", transactionID, err)
		return
	}
	if !settled {
		log.Printf("level=warn component=settlement msg=\"transaction no longer pending; skipped\" transaction_id=%s", transactionID)
		return
	}

	s.publishEvent(ctx, rabbitmq.RoutingKeyTransactionCompleted, rabbitmq.TransactionEvent{
		TransactionID: transactionID,
		Status:        domain.TransactionStatusCompleted,
		Timestamp:     time.Now(),
	})

	log.Printf("level=info component=settlement msg=\"transaction settled\" transaction_id=%s", transactionID)
}

// newTransactionRef builds a unique, human-traceable reference: a TXN prefix,
// a millisecond timestamp, and 48 bits of cryptographic randomness.
func newTransactionRef() string {
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand failing is not survivable for a financial reference.
		panic(fmt.Sprintf("transaction reference entropy unavailable: %v", err))
	}
	return fmt.Sprintf("TXN%d%s", time.Now().UnixMilli(), strings.ToUpper(hex.EncodeToString(suffix)))
}
