// Package admin implements the privileged Employee-only operations of spec
// §4.5. Every mutation here records an audit row naming the acting
// employee in performed_by; freeze/close delegate to the Ledger Engine so
// they share its locking and invariant checks, then the engine's own audit
// write already carries the employee principal this package passes in —
// no operation here writes a second audit row for the same mutation.
package admin

import (
	"context"
	"time"

	"core-banking-ledger/internal/domain/audit"
	"core-banking-ledger/internal/domain/ledger"
	"core-banking-ledger/internal/domain/models"
	"core-banking-ledger/internal/infrastructure/database"
	"core-banking-ledger/internal/pkg/apperrors"
)

type Operations struct {
	store  database.Store
	engine *ledger.Engine
	audit  *audit.Recorder
}

func New(store database.Store, engine *ledger.Engine) *Operations {
	return &Operations{store: store, engine: engine, audit: audit.New()}
}

// SetKYCStatus updates a user's KYC status on behalf of employeeID.
func (o *Operations) SetKYCStatus(ctx context.Context, employeeID string, userID int64, status models.KYCStatus) (*models.User, error) {
	return o.updateUserStatus(ctx, employeeID, userID, nil, &status)
}

// SetUserActive toggles a user's is_active flag on behalf of employeeID.
func (o *Operations) SetUserActive(ctx context.Context, employeeID string, userID int64, active bool) (*models.User, error) {
	return o.updateUserStatus(ctx, employeeID, userID, &active, nil)
}

func (o *Operations) updateUserStatus(ctx context.Context, employeeID string, userID int64, active *bool, kyc *models.KYCStatus) (*models.User, error) {
	if err := o.requireEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	var updated *models.User
	err := o.store.WithTx(ctx, func(tx database.Tx) error {
		user, err := tx.LockUser(ctx, userID)
		if err != nil {
			return apperrors.NotFound(apperrors.ErrUserNotFound, "user %d not found", userID)
		}
		before := *user

		newActive := user.IsActive
		if active != nil {
			newActive = *active
		}
		newKYC := user.KYCStatus
		if kyc != nil {
			newKYC = *kyc
		}

		if err := tx.UpdateUserStatus(ctx, userID, newActive, newKYC); err != nil {
			return apperrors.Internal("update user status: %v", err)
		}

		after := before
		after.IsActive = newActive
		after.KYCStatus = newKYC
		after.UpdatedAt = time.Now()

		if err := o.audit.RecordUserStatusChange(ctx, tx, &before, &after, models.EmployeePrincipal(employeeID)); err != nil {
			return apperrors.Internal("record user status audit: %v", err)
		}

		updated = &after
		return nil
	})
	return updated, err
}

// CreateAccountForUser creates an account on behalf of userID, same
// contract as the engine's self-service CreateAccount, attributed to the
// acting employee.
func (o *Operations) CreateAccountForUser(ctx context.Context, employeeID string, userID int64, accountType models.AccountType, currency string) (*models.Account, error) {
	if err := o.requireEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	return o.engine.CreateAccount(ctx, userID, accountType, currency)
}

// FreezeAccount toggles active/frozen on any account, attributed to the
// acting employee.
func (o *Operations) FreezeAccount(ctx context.Context, employeeID string, accountID int64) (models.AccountStatus, error) {
	if err := o.requireEmployee(ctx, employeeID); err != nil {
		return "", err
	}
	return o.engine.FreezeAccount(ctx, accountID, models.EmployeePrincipal(employeeID))
}

// CloseAccount closes any account, subject to the zero-balance
// precondition, attributed to the acting employee.
func (o *Operations) CloseAccount(ctx context.Context, employeeID string, accountID int64) error {
	if err := o.requireEmployee(ctx, employeeID); err != nil {
		return err
	}
	return o.engine.CloseAccount(ctx, accountID, models.EmployeePrincipal(employeeID))
}

// ListUsers, ListAccounts, ListTransactions, ListAuditLogs are read-only
// and require no audit trail of their own (spec §4.5 only requires audit on
// mutations); they still require an authenticated employee.

func (o *Operations) ListUsers(ctx context.Context, employeeID string, filter database.UserFilter) ([]*models.User, error) {
	if err := o.requireEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	filter.Limit = database.ClampLimit(filter.Limit)
	return o.store.ListUsers(ctx, filter)
}

func (o *Operations) ListAccounts(ctx context.Context, employeeID string, filter database.AccountFilter) ([]*models.Account, error) {
	if err := o.requireEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	filter.Limit = database.ClampLimit(filter.Limit)
	return o.store.ListAccounts(ctx, filter)
}

func (o *Operations) ListTransactions(ctx context.Context, employeeID string, filter database.TransactionFilter) ([]*models.Transaction, error) {
	if err := o.requireEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	filter.Limit = database.ClampLimit(filter.Limit)
	return o.store.ListTransactions(ctx, filter)
}

func (o *Operations) ListAuditLogs(ctx context.Context, employeeID string, filter database.AuditFilter) ([]*models.AuditLog, error) {
	if err := o.requireEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	filter.Limit = database.ClampLimit(filter.Limit)
	return o.store.ListAuditLogs(ctx, filter)
}

// requireEmployee verifies employeeID names an active Employee principal.
// The HTTP layer's authentication is out of scope (spec §1 non-goal); this
// is the domain-level privilege check every admin operation enforces
// regardless of what authenticated the caller.
func (o *Operations) requireEmployee(ctx context.Context, employeeID string) error {
	emp, err := o.store.GetEmployee(ctx, employeeID)
	if err != nil || emp == nil {
		return apperrors.Forbidden("employee %q not found", employeeID)
	}
	if !emp.IsActive {
		return apperrors.Forbidden("employee %q is not active", employeeID)
	}
	return nil
}
