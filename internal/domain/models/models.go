// Package models holds the entities of the ledger's data model (spec §3).
package models

import (
	"fmt"
	"time"

	"core-banking-ledger/internal/pkg/money"
)

type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCVerified KYCStatus = "verified"
	KYCRejected KYCStatus = "rejected"
)

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
	RoleAuditor  UserRole = "auditor"
)

type User struct {
	ID           int64
	Username     string
	PasswordHash []byte
	Email        string
	Phone        *string
	FullName     string
	DateOfBirth  time.Time
	KYCStatus    KYCStatus
	Role         UserRole
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Department string

const (
	DeptAdmin      Department = "admin"
	DeptOperations Department = "operations"
	DeptSupport    Department = "support"
	DeptAudit      Department = "audit"
)

type Employee struct {
	ID           string
	PasswordHash []byte
	FullName     string
	Email        string
	Department   Department
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type AccountType string

const (
	AccountSavings  AccountType = "savings"
	AccountChecking AccountType = "checking"
	AccountWallet   AccountType = "wallet"
	AccountLoan     AccountType = "loan"
)

type AccountStatus string

const (
	AccountActive AccountStatus = "active"
	AccountFrozen AccountStatus = "frozen"
	AccountClosed AccountStatus = "closed"
)

type Account struct {
	ID             int64
	UserID         int64
	AccountNumber  string
	AccountType    AccountType
	Currency       string
	CurrentBalance money.Amount
	Status         AccountStatus
	CreatedAt      time.Time
}

// IsLoan reports whether this account type is exempt from the
// non-negative balance invariant (I2).
func (a Account) IsLoan() bool { return a.AccountType == AccountLoan }

type TransactionTypeCode string

const (
	TxDeposit    TransactionTypeCode = "DEPOSIT"
	TxWithdrawal TransactionTypeCode = "WITHDRAWAL"
	TxTransfer   TransactionTypeCode = "TRANSFER"
	TxPayment    TransactionTypeCode = "PAYMENT"
	TxInterest   TransactionTypeCode = "INTEREST"
	TxFee        TransactionTypeCode = "FEE"
)

type TransactionType struct {
	ID                 int64
	Code               TransactionTypeCode
	Description        string
	IsSystemGenerated  bool
}

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
	TxReversed  TransactionStatus = "reversed"
)

type Transaction struct {
	ID                int64
	ReferenceID       string
	TypeCode          TransactionTypeCode
	Description       string
	InitiatedByUserID *int64
	Status            TransactionStatus
	CreatedAt         time.Time
	CompletedAt       *time.Time
}

type EntryType string

const (
	EntryDebit  EntryType = "debit"
	EntryCredit EntryType = "credit"
)

// TransactionEntry is one leg of a transaction. EntryType is derived from
// the sign of Amount on read, never stored (spec §9: entry_type is a view
// concern).
type TransactionEntry struct {
	ID            int64
	TransactionID int64
	AccountID     int64
	Amount        money.Amount
	BalanceAfter  money.Amount
	CreatedAt     time.Time
}

// Type derives the entry's debit/credit classification from its signed
// amount; negative is debit, non-negative is credit.
func (e TransactionEntry) Type() EntryType {
	if e.Amount.IsNegative() {
		return EntryDebit
	}
	return EntryCredit
}

type EntityType string

const (
	EntityUser        EntityType = "USER"
	EntityAccount     EntityType = "ACCOUNT"
	EntityTransaction EntityType = "TRANSACTION"
)

type ActionType string

const (
	ActionCreate       ActionType = "CREATE"
	ActionUpdate       ActionType = "UPDATE"
	ActionStatusChange ActionType = "STATUS_CHANGE"
)

// AuditLog is an append-only record of who-did-what-when (spec I7).
//
// PerformedBy identifies the principal responsible, formatted by
// UserPrincipal or EmployeePrincipal below; nil means the system itself
// (e.g. an engine-internal freeze with no human actor) performed it.
type AuditLog struct {
	ID          int64
	EntityType  EntityType
	EntityID    int64
	ActionType  ActionType
	OldValue    []byte // JSON snapshot, nil if not applicable
	NewValue    []byte // JSON snapshot, nil if not applicable
	PerformedBy *string
	IPAddress   *string
	CreatedAt   time.Time
}

// UserPrincipal formats a User's id as an AuditLog.PerformedBy value.
func UserPrincipal(userID int64) *string {
	s := fmt.Sprintf("user:%d", userID)
	return &s
}

// EmployeePrincipal formats an Employee's id as an AuditLog.PerformedBy
// value. Employee ids are opaque strings (spec §3), distinct from User's
// integer ids, so the two are namespaced to stay unambiguous in the log.
func EmployeePrincipal(employeeID string) *string {
	s := fmt.Sprintf("employee:%s", employeeID)
	return &s
}

type Verdict string

const (
	VerdictSafe        Verdict = "SAFE"
	VerdictSuspicious  Verdict = "SUSPICIOUS"
	VerdictCritical    Verdict = "CRITICAL"
)

// RiskScore is written by the external anomaly-scoring worker; the ledger
// only ever reads it through the query layer, never writes or enforces it.
type RiskScore struct {
	ID            int64
	TransactionID int64
	RiskScore     float64
	Verdict       Verdict
	FeaturesUsed  []byte // JSON
	ModelVersion  string
	ScoredAt      time.Time
}
