package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit action kinds recorded by the service. The audit trail is the compliance
// record for security- and money-relevant events and is append-only.
const (
	AuditLoginSuccess              = "LOGIN_SUCCESS"
	AuditLoginFailed               = "LOGIN_FAILED"
	AuditLogout                    = "LOGOUT"
	AuditProfileUpdated            = "PROFILE_UPDATED"
	AuditPasswordChanged           = "PASSWORD_CHANGED"
	AuditPasswordChangeFailed      = "PASSWORD_CHANGE_FAILED"
	AuditPayeeAdded                = "PAYEE_ADDED"
	AuditPayeeDeleted              = "PAYEE_DELETED"
	AuditTransactionInitiated      = "TRANSACTION_INITIATED"
	AuditTransactionPasswordFailed = "TRANSACTION_PASSWORD_FAILED"
)

// AuditEntry is one immutable record in the `audit_logs` table. UserID is nil
// for events that could not be attributed (e.g. a failed login against an
// unknown username).
type AuditEntry struct {
	ID         uuid.UUID              `json:"-"`
	UserID     *uuid.UUID             `json:"-"`
	Action     string                 `json:"action"`
	TableName  string                 `json:"table_name,omitempty"`
	RecordID   *uuid.UUID             `json:"record_id,omitempty"`
	OldValues  map[string]interface{} `json:"old_values,omitempty"`
	NewValues  map[string]interface{} `json:"new_values,omitempty"`
	IPAddress  string                 `json:"ip_address,omitempty"`
	UserAgent  string                 `json:"-"`
	OccurredAt time.Time              `json:"created_at"`
}

// RequestMeta carries the originating network address and client descriptor
// from the API layer down to the audit logger.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Dashboard aggregates the data shown on the landing screen.
type Dashboard struct {
	User               UserSummary            `json:"user"`
	Accounts           []Account              `json:"accounts"`
	RecentTransactions []DashboardTransaction `json:"recent_transactions"`
	PayeesCount        int                    `json:"payees_count"`
}

// Pagination describes one page of a paginated listing.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}
