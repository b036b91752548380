// Package audit implements the Audit Recorder of spec §4.3: an append-only
// emitter of JSON snapshots for every create and status change on Users
// and Accounts. Per spec §9's preferred design, it writes within the same
// store transaction as the mutation it documents, so an audit row can
// never exist without its mutation having committed (and vice versa).
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"core-banking-ledger/internal/domain/models"
	"core-banking-ledger/internal/infrastructure/database"
)

type Recorder struct{}

func New() *Recorder { return &Recorder{} }

type userSnapshot struct {
	Username  string           `json:"username"`
	Email     string           `json:"email"`
	Role      models.UserRole  `json:"role"`
	KYCStatus models.KYCStatus `json:"kyc_status"`
	IsActive  bool             `json:"is_active"`
}

type accountSnapshot struct {
	AccountNumber string               `json:"account_number"`
	AccountType   models.AccountType   `json:"account_type"`
	Currency      string               `json:"currency"`
	Status        models.AccountStatus `json:"status"`
}

// RecordUserCreate writes a CREATE audit row for a newly created user.
func (r *Recorder) RecordUserCreate(ctx context.Context, tx database.Tx, u *models.User, performedBy *string) error {
	snap, err := json.Marshal(userSnapshot{
		Username: u.Username, Email: u.Email, Role: u.Role, KYCStatus: u.KYCStatus, IsActive: u.IsActive,
	})
	if err != nil {
		return fmt.Errorf("audit: marshal user snapshot: %w", err)
	}
	return tx.InsertAuditLog(ctx, &models.AuditLog{
		EntityType:  models.EntityUser,
		EntityID:    u.ID,
		ActionType:  models.ActionCreate,
		NewValue:    snap,
		PerformedBy: performedBy,
	})
}

// RecordAccountCreate writes a CREATE audit row for a newly created account.
func (r *Recorder) RecordAccountCreate(ctx context.Context, tx database.Tx, a *models.Account, performedBy *string) error {
	snap, err := json.Marshal(accountSnapshot{
		AccountNumber: a.AccountNumber, AccountType: a.AccountType, Currency: a.Currency, Status: a.Status,
	})
	if err != nil {
		return fmt.Errorf("audit: marshal account snapshot: %w", err)
	}
	return tx.InsertAuditLog(ctx, &models.AuditLog{
		EntityType:  models.EntityAccount,
		EntityID:    a.ID,
		ActionType:  models.ActionCreate,
		NewValue:    snap,
		PerformedBy: performedBy,
	})
}

// RecordUserStatusChange writes a STATUS_CHANGE audit row covering the
// is_active/kyc_status/role subset that changed.
func (r *Recorder) RecordUserStatusChange(ctx context.Context, tx database.Tx, before, after *models.User, performedBy *string) error {
	oldSnap, err := json.Marshal(userSnapshot{
		Username: before.Username, Email: before.Email, Role: before.Role, KYCStatus: before.KYCStatus, IsActive: before.IsActive,
	})
	if err != nil {
		return fmt.Errorf("audit: marshal old user snapshot: %w", err)
	}
	newSnap, err := json.Marshal(userSnapshot{
		Username: after.Username, Email: after.Email, Role: after.Role, KYCStatus: after.KYCStatus, IsActive: after.IsActive,
	})
	if err != nil {
		return fmt.Errorf("audit: marshal new user snapshot: %w", err)
	}
	return tx.InsertAuditLog(ctx, &models.AuditLog{
		EntityType:  models.EntityUser,
		EntityID:    after.ID,
		ActionType:  models.ActionStatusChange,
		OldValue:    oldSnap,
		NewValue:    newSnap,
		PerformedBy: performedBy,
	})
}

// RecordAccountStatusChange writes a STATUS_CHANGE audit row for a
// freeze/unfreeze/close transition.
func (r *Recorder) RecordAccountStatusChange(ctx context.Context, tx database.Tx, before, after *models.Account, performedBy *string) error {
	oldSnap, err := json.Marshal(accountSnapshot{
		AccountNumber: before.AccountNumber, AccountType: before.AccountType, Currency: before.Currency, Status: before.Status,
	})
	if err != nil {
		return fmt.Errorf("audit: marshal old account snapshot: %w", err)
	}
	newSnap, err := json.Marshal(accountSnapshot{
		AccountNumber: after.AccountNumber, AccountType: after.AccountType, Currency: after.Currency, Status: after.Status,
	})
	if err != nil {
		return fmt.Errorf("audit: marshal new account snapshot: %w", err)
	}
	return tx.InsertAuditLog(ctx, &models.AuditLog{
		EntityType:  models.EntityAccount,
		EntityID:    after.ID,
		ActionType:  models.ActionStatusChange,
		OldValue:    oldSnap,
		NewValue:    newSnap,
		PerformedBy: performedBy,
	})
}
