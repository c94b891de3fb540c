/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository` interface.
 * It contains all the SQL needed by the banking API: users, sessions, accounts,
 * transactions and their status history, payees, and the audit log.
 *
 * The money-movement queries are the only ones with real consistency concerns:
 * `CreateTransferAtomic` locks the source account row with SELECT ... FOR UPDATE
 * so the balance check and the debit are serialized per account, and
 * `SettleTransaction` guards the status update with `status = 'pending'` so a
 * transaction can only move forward.
 *
 * @dependencies
 * - context, time, errors, encoding/json: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sterlingbank/banking-api/internal/domain"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrPayeeNotFound       = errors.New("payee not found")
	ErrPayeeExists         = errors.New("payee already exists")
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindActiveUserByUsername retrieves an active user by username, including the
// credential hashes needed for login verification.
func (r *PostgresRepository) FindActiveUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	query := `
		SELECT id, username, full_name, email, password_hash, transaction_password_hash, is_active, created_at, updated_at
		FROM users
		WHERE username = $1 AND is_active = true
	`
	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.TransactionPasswordHash,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindActiveUserByID retrieves an active user by id.
func (r *PostgresRepository) FindActiveUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `
		SELECT id, username, full_name, email, password_hash, transaction_password_hash, is_active, created_at, updated_at
		FROM users
		WHERE id = $1 AND is_active = true
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Username,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.TransactionPasswordHash,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates a user's full name and email and returns the new row.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, fullName, email string) (*domain.User, error) {
	var user domain.User
	query := `
		UPDATE users
		SET full_name = $1, email = $2, updated_at = NOW()
		WHERE id = $3 AND is_active = true
		RETURNING id, username, full_name, email, is_active, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, fullName, email, userID).Scan(
		&user.ID,
		&user.Username,
		&user.FullName,
		&user.Email,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdatePasswordHash replaces a user's login password hash.
func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.Exec(ctx, query, passwordHash, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CreateSession stores a newly issued session token.
func (r *PostgresRepository) CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO user_sessions (user_id, session_token, is_active, expires_at)
		VALUES ($1, $2, true, $3)
	`
	_, err := r.db.Exec(ctx, query, userID, token, expiresAt)
	return err
}

// FindActiveSessionByToken returns a session that is active and not expired.
func (r *PostgresRepository) FindActiveSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	var session domain.Session
	query := `
		SELECT id, user_id, session_token, is_active, expires_at, created_at
		FROM user_sessions
		WHERE session_token = $1 AND is_active = true AND expires_at > NOW()
	`
	err := r.db.QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.IsActive,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// DeactivateSession marks one session inactive (logout).
func (r *PostgresRepository) DeactivateSession(ctx context.Context, token string) error {
	query := `UPDATE user_sessions SET is_active = false WHERE session_token = $1`
	_, err := r.db.Exec(ctx, query, token)
	return err
}

// DeactivateUserSessions marks every session of a user inactive. Used after a
// password change so all existing logins are forced to re-authenticate.
func (r *PostgresRepository) DeactivateUserSessions(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE user_sessions SET is_active = false WHERE user_id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

// DeleteExpiredSessions removes sessions whose expiry has passed and returns the
// number of rows deleted. Called by the scheduled sweep job.
func (r *PostgresRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM user_sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// FindActiveAccountsByUserID lists a user's active accounts ordered by name.
func (r *PostgresRepository) FindActiveAccountsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	query := `
		SELECT id, user_id, account_number, sort_code, account_name, balance, account_type, is_active, created_at, updated_at
		FROM accounts
		WHERE user_id = $1 AND is_active = true
		ORDER BY account_name
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.AccountNumber,
			&account.SortCode,
			&account.AccountName,
			&account.Balance,
			&account.AccountType,
			&account.IsActive,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// FindActiveAccountByID retrieves an active account owned by the given user.
func (r *PostgresRepository) FindActiveAccountByID(ctx context.Context, accountID, userID uuid.UUID) (*domain.Account, error) {
	var account domain.Account
	query := `
		SELECT id, user_id, account_number, sort_code, account_name, balance, account_type, is_active, created_at, updated_at
		FROM accounts
		WHERE id = $1 AND user_id = $2 AND is_active = true
	`
	err := r.db.QueryRow(ctx, query, accountID, userID).Scan(
		&account.ID,
		&account.UserID,
		&account.AccountNumber,
		&account.SortCode,
		&account.AccountName,
		&account.Balance,
		&account.AccountType,
		&account.IsActive,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// CreateTransferAtomic inserts the transaction record, debits the source
// account, and writes the pending status event as one database transaction.
// The account row is locked with FOR UPDATE so two concurrent transfers from
// the same account cannot both pass the balance check.
func (r *PostgresRepository) CreateTransferAtomic(ctx context.Context, params TransferParams) (*domain.Transaction, error) {
	dbTx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback(ctx)

	// Lock the source account row and re-validate ownership, activity and
	// balance under the lock.
	var balance int64
	lockQuery := `
		SELECT balance
		FROM accounts
		WHERE id = $1 AND user_id = $2 AND is_active = true
		FOR UPDATE
	`
	err = dbTx.QueryRow(ctx, lockQuery, params.FromAccountID, params.UserID).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to lock source account: %w", err)
	}
	if balance < params.Amount {
		return nil, ErrInsufficientFunds
	}

	var tx domain.Transaction
	insertQuery := `
		INSERT INTO transactions (
			transaction_ref, from_account_id, to_account_number, to_sort_code,
			to_account_name, amount, description, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
		RETURNING id, transaction_ref, from_account_id, to_account_number, to_sort_code,
			to_account_name, amount, description, status, created_at
	`
	err = dbTx.QueryRow(ctx, insertQuery,
		params.Reference,
		params.FromAccountID,
		params.ToAccountNumber,
		params.ToSortCode,
		params.ToAccountName,
		params.Amount,
		params.Description,
	).Scan(
		&tx.ID,
		&tx.Reference,
		&tx.FromAccountID,
		&tx.ToAccountNumber,
		&tx.ToSortCode,
		&tx.ToAccountName,
		&tx.Amount,
		&tx.Description,
		&tx.Status,
		&tx.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	debitQuery := `
		UPDATE accounts
		SET balance = balance - $1, updated_at = NOW()
		WHERE id = $2
	`
	if _, err := dbTx.Exec(ctx, debitQuery, params.Amount, params.FromAccountID); err != nil {
		return nil, fmt.Errorf("failed to debit source account: %w", err)
	}

	historyQuery := `
		INSERT INTO transaction_status_history (transaction_id, status, created_by)
		VALUES ($1, 'pending', $2)
	`
	if _, err := dbTx.Exec(ctx, historyQuery, tx.ID, params.UserID); err != nil {
		return nil, fmt.Errorf("failed to insert status history: %w", err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transfer: %w", err)
	}
	return &tx, nil
}

// SettleTransaction marks a pending transaction completed, sets its processed
// timestamp, and appends the completed status event as one database
// transaction. Returns false without error when the transaction is no longer
// pending, which keeps the status machine forward-only.
func (r *PostgresRepository) SettleTransaction(ctx context.Context, transactionID uuid.UUID, reason string) (bool, error) {
	dbTx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback(ctx)

	updateQuery := `
		UPDATE transactions
		SET status = 'completed', processed_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	result, err := dbTx.Exec(ctx, updateQuery, transactionID)
	if err != nil {
		return false, fmt.Errorf("failed to update transaction status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return false, nil
	}

	historyQuery := `
		INSERT INTO transaction_status_history (transaction_id, status, reason)
		VALUES ($1, 'completed', $2)
	`
	if _, err := dbTx.Exec(ctx, historyQuery, transactionID, reason); err != nil {
		return false, fmt.Errorf("failed to insert status history: %w", err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit settlement: %w", err)
	}
	return true, nil
}

// ListTransactionsByUser returns one page of transactions whose source account
// belongs to the user, newest first, optionally filtered by status, together
// with the total count for pagination.
func (r *PostgresRepository) ListTransactionsByUser(ctx context.Context, userID uuid.UUID, opts domain.TransactionListOptions) ([]domain.TransactionListItem, int, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := `
		SELECT t.id, t.transaction_ref, t.from_account_id, t.to_account_number, t.to_sort_code,
			t.to_account_name, t.amount, t.description, t.status, t.created_at, t.processed_at,
			a.account_number, a.account_name
		FROM transactions t
		JOIN accounts a ON t.from_account_id = a.id
		WHERE a.user_id = $1
	`
	countQuery := `
		SELECT COUNT(*)
		FROM transactions t
		JOIN accounts a ON t.from_account_id = a.id
		WHERE a.user_id = $1
	`
	args := []interface{}{userID}
	if opts.Status != "" {
		query += ` AND t.status = $2`
		countQuery += ` AND t.status = $2`
		args = append(args, opts.Status)
	}
	query += fmt.Sprintf(` ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.TransactionListItem
	for rows.Next() {
		var item domain.TransactionListItem
		if err := rows.Scan(
			&item.ID,
			&item.Reference,
			&item.FromAccountID,
			&item.ToAccountNumber,
			&item.ToSortCode,
			&item.ToAccountName,
			&item.Amount,
			&item.Description,
			&item.Status,
			&item.CreatedAt,
			&item.ProcessedAt,
			&item.FromAccountNumber,
			&item.FromAccountName,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// FindTransactionByID returns one transaction scoped to the user's accounts,
// with its status history ordered oldest-first.
func (r *PostgresRepository) FindTransactionByID(ctx context.Context, transactionID, userID uuid.UUID) (*domain.TransactionDetail, error) {
	var detail domain.TransactionDetail
	query := `
		SELECT t.id, t.transaction_ref, t.from_account_id, t.to_account_number, t.to_sort_code,
			t.to_account_name, t.amount, t.description, t.status, t.created_at, t.processed_at,
			a.account_number, a.account_name, a.sort_code
		FROM transactions t
		JOIN accounts a ON t.from_account_id = a.id
		WHERE t.id = $1 AND a.user_id = $2
	`
	err := r.db.QueryRow(ctx, query, transactionID, userID).Scan(
		&detail.ID,
		&detail.Reference,
		&detail.FromAccountID,
		&detail.ToAccountNumber,
		&detail.ToSortCode,
		&detail.ToAccountName,
		&detail.Amount,
		&detail.Description,
		&detail.Status,
		&detail.CreatedAt,
		&detail.ProcessedAt,
		&detail.FromAccountNumber,
		&detail.FromAccountName,
		&detail.FromSortCode,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	historyQuery := `
		SELECT id, transaction_id, status, reason, created_by, created_at
		FROM transaction_status_history
		WHERE transaction_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, historyQuery, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var event domain.TransactionStatusEvent
		if err := rows.Scan(
			&event.ID,
			&event.TransactionID,
			&event.Status,
			&event.Reason,
			&event.CreatedBy,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		detail.StatusHistory = append(detail.StatusHistory, event)
	}
	return &detail, rows.Err()
}

// FindRecentTransactionsByUser returns the most recent transactions touching
// any of the user's accounts, annotated with their direction. A transaction is
// a credit when it is addressed to one of the user's own account number and
// sort code pairs.
func (r *PostgresRepository) FindRecentTransactionsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.DashboardTransaction, error) {
	if limit < 1 {
		limit = 10
	}
	query := `
		SELECT t.id, t.transaction_ref, t.from_account_id, t.to_account_number, t.to_sort_code,
			t.to_account_name, t.amount, t.description, t.status, t.created_at, t.processed_at,
			CASE
				WHEN t.from_account_id IN (SELECT id FROM accounts WHERE user_id = $1) THEN 'debit'
				ELSE 'credit'
			END AS transaction_direction
		FROM transactions t
		WHERE t.from_account_id IN (SELECT id FROM accounts WHERE user_id = $1)
			OR (t.to_account_number, t.to_sort_code) IN
				(SELECT account_number, sort_code FROM accounts WHERE user_id = $1)
		ORDER BY t.created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.DashboardTransaction
	for rows.Next() {
		var item domain.DashboardTransaction
		if err := rows.Scan(
			&item.ID,
			&item.Reference,
			&item.FromAccountID,
			&item.ToAccountNumber,
			&item.ToSortCode,
			&item.ToAccountName,
			&item.Amount,
			&item.Description,
			&item.Status,
			&item.CreatedAt,
			&item.ProcessedAt,
			&item.Direction,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// FindActivePayeesByUserID lists a user's active payees ordered by name.
func (r *PostgresRepository) FindActivePayeesByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Payee, error) {
	query := `
		SELECT id, user_id, payee_name, account_number, sort_code, bank_name, nickname, is_active, created_at
		FROM payees
		WHERE user_id = $1 AND is_active = true
		ORDER BY payee_name
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payees []domain.Payee
	for rows.Next() {
		var payee domain.Payee
		if err := rows.Scan(
			&payee.ID,
			&payee.UserID,
			&payee.PayeeName,
			&payee.AccountNumber,
			&payee.SortCode,
			&payee.BankName,
			&payee.Nickname,
			&payee.IsActive,
			&payee.CreatedAt,
		); err != nil {
			return nil, err
		}
		payees = append(payees, payee)
	}
	return payees, rows.Err()
}

// FindActivePayeeByID retrieves one active payee owned by the user.
func (r *PostgresRepository) FindActivePayeeByID(ctx context.Context, payeeID, userID uuid.UUID) (*domain.Payee, error) {
	var payee domain.Payee
	query := `
		SELECT id, user_id, payee_name, account_number, sort_code, bank_name, nickname, is_active, created_at
		FROM payees
		WHERE id = $1 AND user_id = $2 AND is_active = true
	`
	err := r.db.QueryRow(ctx, query, payeeID, userID).Scan(
		&payee.ID,
		&payee.UserID,
		&payee.PayeeName,
		&payee.AccountNumber,
		&payee.SortCode,
		&payee.BankName,
		&payee.Nickname,
		&payee.IsActive,
		&payee.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPayeeNotFound
		}
		return nil, err
	}
	return &payee, nil
}

// CreatePayee inserts a new payee after checking that the user does not already
// have an active payee with the same account number and sort code.
func (r *PostgresRepository) CreatePayee(ctx context.Context, payee *domain.Payee) (*domain.Payee, error) {
	var existingID uuid.UUID
	existingQuery := `
		SELECT id FROM payees
		WHERE user_id = $1 AND account_number = $2 AND sort_code = $3 AND is_active = true
	`
	err := r.db.QueryRow(ctx, existingQuery, payee.UserID, payee.AccountNumber, payee.SortCode).Scan(&existingID)
	if err == nil {
		return nil, ErrPayeeExists
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	insertQuery := `
		INSERT INTO payees (user_id, payee_name, account_number, sort_code, bank_name, nickname)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, payee_name, account_number, sort_code, bank_name, nickname, is_active, created_at
	`
	var created domain.Payee
	err = r.db.QueryRow(ctx, insertQuery,
		payee.UserID,
		payee.PayeeName,
		payee.AccountNumber,
		payee.SortCode,
		payee.BankName,
		payee.Nickname,
	).Scan(
		&created.ID,
		&created.UserID,
		&created.PayeeName,
		&created.AccountNumber,
		&created.SortCode,
		&created.BankName,
		&created.Nickname,
		&created.IsActive,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeactivatePayee soft deletes a payee.
func (r *PostgresRepository) DeactivatePayee(ctx context.Context, payeeID, userID uuid.UUID) error {
	query := `UPDATE payees SET is_active = false WHERE id = $1 AND user_id = $2 AND is_active = true`
	result, err := r.db.Exec(ctx, query, payeeID, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrPayeeNotFound
	}
	return nil
}

// CountActivePayees returns the number of active payees a user has.
func (r *PostgresRepository) CountActivePayees(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM payees WHERE user_id = $1 AND is_active = true`
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CreateAuditLog appends one immutable audit record. Old and new value
// snapshots are stored as JSON.
func (r *PostgresRepository) CreateAuditLog(ctx context.Context, entry domain.AuditEntry) error {
	var oldValues, newValues []byte
	var err error
	if entry.OldValues != nil {
		if oldValues, err = json.Marshal(entry.OldValues); err != nil {
			return fmt.Errorf("failed to marshal old values: %w", err)
		}
	}
	if entry.NewValues != nil {
		if newValues, err = json.Marshal(entry.NewValues); err != nil {
			return fmt.Errorf("failed to marshal new values: %w", err)
		}
	}

	query := `
		INSERT INTO audit_logs (user_id, action, table_name, record_id, old_values, new_values, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.Exec(ctx, query,
		entry.UserID,
		entry.Action,
		nullableString(entry.TableName),
		entry.RecordID,
		oldValues,
		newValues,
		nullableString(entry.IPAddress),
		nullableString(entry.UserAgent),
	)
	return err
}

// ListAuditLogsByUser returns one page of a user's audit trail, newest first,
// with the total count for pagination.
func (r *PostgresRepository) ListAuditLogsByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.AuditEntry, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int
	countQuery := `SELECT COUNT(*) FROM audit_logs WHERE user_id = $1`
	if err := r.db.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT action, table_name, old_values, new_values, ip_address, created_at
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		var tableName, ipAddress *string
		var oldValues, newValues []byte
		if err := rows.Scan(&entry.Action, &tableName, &oldValues, &newValues, &ipAddress, &entry.OccurredAt); err != nil {
			return nil, 0, err
		}
		if tableName != nil {
			entry.TableName = *tableName
		}
		if ipAddress != nil {
			entry.IPAddress = *ipAddress
		}
		if len(oldValues) > 0 {
			if err := json.Unmarshal(oldValues, &entry.OldValues); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal old values: %w", err)
			}
		}
		if len(newValues) > 0 {
			if err := json.Unmarshal(newValues, &entry.NewValues); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal new values: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, total, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
