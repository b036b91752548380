// Package guards implements the Invariant Guards of spec §4.2: pre-commit
// checks co-located with the engine that reject mutations violating
// business rules, regardless of whether the mutation came from the engine,
// an admin operation, or a manual correction.
//
// The spec notes these are "ideally co-resident with the store" as a
// second line of defense when the store supports triggers, but mandates
// the engine perform the same checks before commit when it doesn't (or to
// keep the logic portable). This package is that portable implementation;
// the postgres store additionally carries a CHECK constraint for the
// non-negative balance rule as defense in depth (see
// migrations/0001_init.up.sql); the other guards exist only here.
package guards

import (
	"core-banking-ledger/internal/domain/models"
	"core-banking-ledger/internal/pkg/apperrors"
	"core-banking-ledger/internal/pkg/money"
)

// NonNegativeBalance enforces I2: a non-loan account's balance may never
// go negative at a commit point.
func NonNegativeBalance(acc *models.Account, newBalance money.Amount) error {
	if acc.IsLoan() {
		return nil
	}
	if newBalance.IsNegative() {
		return apperrors.PreconditionFailed(apperrors.ErrInsufficientFunds,
			"insufficient funds: account %d would go to %s", acc.ID, newBalance)
	}
	return nil
}

// BalanceAfterConsistency enforces I3: an entry's balance_after must equal
// prior_balance + amount for the account in commit order.
func BalanceAfterConsistency(prior, amount, balanceAfter money.Amount) error {
	expected := prior.Add(amount)
	if !expected.Equal(balanceAfter) {
		return apperrors.Internal(
			"balance_after mismatch: expected %s, got %s", expected, balanceAfter)
	}
	return nil
}

// AccountMutable rejects any entry insert against a frozen or closed
// account.
func AccountMutable(acc *models.Account) error {
	switch acc.Status {
	case models.AccountFrozen:
		return apperrors.PreconditionFailed(apperrors.ErrAccountFrozen,
			"account %d is frozen", acc.ID)
	case models.AccountClosed:
		return apperrors.PreconditionFailed(apperrors.ErrAccountClosed,
			"account %d is closed", acc.ID)
	}
	return nil
}

// TransactionPending rejects any attempt to mutate a transaction that has
// already reached a terminal status (I6).
func TransactionPending(status models.TransactionStatus) error {
	if status != models.TxPending {
		return apperrors.Internal("transaction is not pending (status=%s)", status)
	}
	return nil
}

// CloseEligible enforces the zero-balance precondition for CloseAccount
// (I8): exact equality to zero, no epsilon tolerance.
func CloseEligible(acc *models.Account) error {
	if acc.Status == models.AccountClosed {
		return apperrors.PreconditionFailed(apperrors.ErrAlreadyClosed,
			"account %d already closed", acc.ID)
	}
	if !acc.CurrentBalance.IsZero() {
		return apperrors.PreconditionFailed(apperrors.ErrNonZeroBalance,
			"account %d has non-zero balance %s", acc.ID, acc.CurrentBalance)
	}
	return nil
}
