// Package database defines the Store interface the domain layer depends
// on. The engine never talks to pgx (or any driver) directly — it only
// sees this interface, so unit tests can swap in an in-memory fake while
// integration tests exercise the real PostgreSQL-backed implementation.
package database

import (
	"context"
	"time"

	"core-banking-ledger/internal/domain/models"
	"core-banking-ledger/internal/pkg/money"
)

// Store is the durable persistence layer (spec §2.1). Every mutating
// ledger operation opens exactly one transaction via WithTx and performs
// all of its locking, validation, and writes inside it; no operation ever
// spans more than one Store transaction (spec §9).
type Store interface {
	WithTx(ctx context.Context, fn func(Tx) error) error

	// Read-only helpers that don't need row locks, used by the query layer
	// and by callers that only need a snapshot.
	GetAccount(ctx context.Context, accountID int64) (*models.Account, error)
	GetAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	ListAccountsForUser(ctx context.Context, userID int64) ([]*models.Account, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	GetEmployee(ctx context.Context, employeeID string) (*models.Employee, error)
	// GetTransactionByReference returns (nil, nil) if not found.
	GetTransactionByReference(ctx context.Context, referenceID string) (*models.Transaction, error)
	GetTransaction(ctx context.Context, transactionID int64) (*models.Transaction, error)
	ListEntriesForTransaction(ctx context.Context, transactionID int64) ([]*models.TransactionEntry, error)

	// Query/View layer reads (spec §4.4). All observe a consistent
	// snapshot and never block a concurrent mutation.
	BalanceSheet(ctx context.Context) ([]CurrencyTotal, error)
	LedgerIntegrityViolations(ctx context.Context, tolerance money.Amount) ([]IntegrityViolation, error)
	CustomerStatement(ctx context.Context, userID int64, limit, offset int) ([]StatementLine, error)
	FlaggedTransactions(ctx context.Context, limit, offset int) ([]FlaggedTransaction, error)
	MiniStatement(ctx context.Context, accountID int64, n int) ([]StatementLine, error)
	History(ctx context.Context, userID int64, filter HistoryFilter) ([]StatementLine, error)

	// Admin listing (spec §4.5).
	ListUsers(ctx context.Context, filter UserFilter) ([]*models.User, error)
	ListAccounts(ctx context.Context, filter AccountFilter) ([]*models.Account, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error)
	ListAuditLogs(ctx context.Context, filter AuditFilter) ([]*models.AuditLog, error)

	// Reset truncates all tables. Test-only.
	Reset(ctx context.Context) error

	Close()
}

// Tx is the set of operations available inside one serializable/locked
// transaction. Implementations must take row locks with SELECT ... FOR
// UPDATE (or the store's equivalent) inside LockAccount so the read and
// the eventual write happen against the same locked value (spec §4.1
// "read-modify-write under lock").
type Tx interface {
	// LockAccount acquires an exclusive row lock on the account and
	// returns its current state. Callers lock multiple accounts in
	// ascending account_id order (spec's canonical lock ordering). Returns
	// an error wrapping apperrors.ErrAccountNotFound if no such row exists.
	LockAccount(ctx context.Context, accountID int64) (*models.Account, error)
	// LockUser returns an error wrapping apperrors.ErrUserNotFound if no
	// such row exists.
	LockUser(ctx context.Context, userID int64) (*models.User, error)

	UpdateAccountBalance(ctx context.Context, accountID int64, newBalance money.Amount) error
	UpdateAccountStatus(ctx context.Context, accountID int64, status models.AccountStatus) error
	InsertAccount(ctx context.Context, acc *models.Account) (*models.Account, error)
	CountAccountsForUser(ctx context.Context, userID int64) (int, error)

	UpdateUserStatus(ctx context.Context, userID int64, isActive bool, kyc models.KYCStatus) error

	// GetTransactionByReference returns (nil, nil) if no transaction with
	// that reference_id exists, so callers can distinguish "not found"
	// from a real lookup failure without a sentinel error.
	GetTransactionByReference(ctx context.Context, referenceID string) (*models.Transaction, error)
	InsertTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, transactionID int64, status models.TransactionStatus, completedAt *time.Time) error
	InsertEntry(ctx context.Context, entry *models.TransactionEntry) (*models.TransactionEntry, error)

	InsertAuditLog(ctx context.Context, log *models.AuditLog) error
}

type CurrencyTotal struct {
	Currency string
	Total    money.Amount
}

type IntegrityViolation struct {
	TransactionID int64
	ReferenceID   string
	Sum           money.Amount
}

type StatementLine struct {
	Date         time.Time
	AccountID    int64
	TypeCode     models.TransactionTypeCode
	Description  string
	Amount       money.Amount
	BalanceAfter money.Amount
	Status       models.TransactionStatus
}

type FlaggedTransaction struct {
	TransactionID int64
	ReferenceID   string
	RiskScore     float64
	Verdict       models.Verdict
	CreatedAt     time.Time
}

type HistoryFilter struct {
	TypeCode    *models.TransactionTypeCode
	From, To    *time.Time
	MinAmount   *money.Amount
	MaxAmount   *money.Amount
	TextMatch   string
	Limit       int
	Offset      int
}

type UserFilter struct {
	KYCStatus *models.KYCStatus
	IsActive  *bool
	Role      *models.UserRole
	Limit     int
	Offset    int
}

type AccountFilter struct {
	UserID *int64
	Status *models.AccountStatus
	Type   *models.AccountType
	Limit  int
	Offset int
}

type TransactionFilter struct {
	Status *models.TransactionStatus
	TypeCode *models.TransactionTypeCode
	Limit  int
	Offset int
}

type AuditFilter struct {
	EntityType *models.EntityType
	EntityID   *int64
	Limit      int
	Offset     int
}

// MaxPageSize is the hard ceiling on limit across all paginated reads
// (spec §6 read-view surface).
const MaxPageSize = 500

// ClampLimit normalizes a caller-supplied limit to (0, MaxPageSize].
func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
