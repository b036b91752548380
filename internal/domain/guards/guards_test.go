package guards_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"core-banking-ledger/internal/domain/guards"
	"core-banking-ledger/internal/domain/models"
	"core-banking-ledger/internal/pkg/money"
)

func amt(s string) money.Amount {
	a, err := money.New(s)
	if err != nil {
		panic(err)
	}
	return a
}

func TestNonNegativeBalance_RejectsNegative(t *testing.T) {
	acc := &models.Account{ID: 1, AccountType: models.AccountChecking}
	err := guards.NonNegativeBalance(acc, amt("-0.01"))
	assert.Error(t, err)
}

func TestNonNegativeBalance_AllowsZero(t *testing.T) {
	acc := &models.Account{ID: 1, AccountType: models.AccountChecking}
	assert.NoError(t, guards.NonNegativeBalance(acc, money.Zero))
}

func TestNonNegativeBalance_LoanAccountExempt(t *testing.T) {
	acc := &models.Account{ID: 1, AccountType: models.AccountLoan}
	assert.NoError(t, guards.NonNegativeBalance(acc, amt("-500.00")))
}

func TestBalanceAfterConsistency(t *testing.T) {
	assert.NoError(t, guards.BalanceAfterConsistency(amt("100"), amt("50"), amt("150")))
	assert.Error(t, guards.BalanceAfterConsistency(amt("100"), amt("50"), amt("151")))
}

func TestAccountMutable(t *testing.T) {
	cases := []struct {
		status  models.AccountStatus
		wantErr bool
	}{
		{models.AccountActive, false},
		{models.AccountFrozen, true},
		{models.AccountClosed, true},
	}
	for _, c := range cases {
		acc := &models.Account{ID: 1, Status: c.status}
		err := guards.AccountMutable(acc)
		if c.wantErr {
			assert.Error(t, err, c.status)
		} else {
			assert.NoError(t, err, c.status)
		}
	}
}

func TestCloseEligible(t *testing.T) {
	active := &models.Account{ID: 1, Status: models.AccountActive, CurrentBalance: money.Zero}
	assert.NoError(t, guards.CloseEligible(active))

	nonZero := &models.Account{ID: 1, Status: models.AccountActive, CurrentBalance: amt("1.00")}
	assert.Error(t, guards.CloseEligible(nonZero))

	closed := &models.Account{ID: 1, Status: models.AccountClosed, CurrentBalance: money.Zero}
	assert.Error(t, guards.CloseEligible(closed))
}

func TestTransactionPending(t *testing.T) {
	assert.NoError(t, guards.TransactionPending(models.TxPending))
	assert.Error(t, guards.TransactionPending(models.TxCompleted))
}
