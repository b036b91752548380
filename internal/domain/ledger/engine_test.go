package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"core-banking-ledger/internal/config"
	"core-banking-ledger/internal/domain/ledger"
	"core-banking-ledger/internal/domain/models"
	"core-banking-ledger/internal/infrastructure/database/fakestore"
	"core-banking-ledger/internal/infrastructure/messaging"
	"core-banking-ledger/internal/pkg/apperrors"
	"core-banking-ledger/internal/pkg/money"
)

func amt(s string) money.Amount {
	a, err := money.New(s)
	if err != nil {
		panic(err)
	}
	return a
}

func newEngine(t *testing.T) (*ledger.Engine, *fakestore.Store, *messaging.EventCapture) {
	t.Helper()
	store := fakestore.New()
	capture := messaging.NewEventCapture()
	e := ledger.New(store, capture, config.LedgerConfig{DefaultCurrency: "USD", AccountNumberRetries: 4})
	return e, store, capture
}

func seedUser(store *fakestore.Store, active bool) *models.User {
	return store.PutUser(&models.User{Username: "alice", IsActive: active})
}

func seedAccount(store *fakestore.Store, userID int64, balance money.Amount, status models.AccountStatus, accType models.AccountType) *models.Account {
	return store.PutAccount(&models.Account{
		UserID: userID, AccountNumber: "CK00000001", AccountType: accType,
		Currency: "USD", CurrentBalance: balance, Status: status,
	})
}

func TestCreateAccount_Success(t *testing.T) {
	e, store, capture := newEngine(t)
	user := seedUser(store, true)

	acc, err := e.CreateAccount(context.Background(), user.ID, models.AccountChecking, "")
	require.NoError(t, err)
	assert.Equal(t, "USD", acc.Currency)
	assert.True(t, acc.CurrentBalance.IsZero())
	assert.Equal(t, models.AccountActive, acc.Status)
	assert.Len(t, capture.AccountCreatedEvents(), 1)
}

func TestCreateAccount_InactiveUserRejected(t *testing.T) {
	e, store, _ := newEngine(t)
	user := seedUser(store, false)

	_, err := e.CreateAccount(context.Background(), user.ID, models.AccountChecking, "")
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindPreconditionFailed, apperrors.KindOf(err))
}

func TestCreateAccount_UnknownUser(t *testing.T) {
	e, _, _ := newEngine(t)
	_, err := e.CreateAccount(context.Background(), 999, models.AccountChecking, "")
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestDeposit_IncreasesBalance(t *testing.T) {
	e, store, capture := newEngine(t)
	user := seedUser(store, true)
	acc := seedAccount(store, user.ID, money.Zero, models.AccountActive, models.AccountChecking)

	_, err := e.Deposit(context.Background(), acc.ID, amt("100.00"), "initial funding", "")
	require.NoError(t, err)

	got, err := store.GetAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.0000", got.CurrentBalance.String())
	assert.Len(t, capture.TransactionCompletedEvents(), 1)
}

func TestDeposit_RejectsZeroAmount(t *testing.T) {
	e, store, _ := newEngine(t)
	user := seedUser(store, true)
	acc := seedAccount(store, user.ID, money.Zero, models.AccountActive, models.AccountChecking)

	_, err := e.Deposit(context.Background(), acc.ID, money.Zero, "", "")
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestDeposit_RejectsFrozenAccount(t *testing.T) {
	e, store, _ := newEngine(t)
	user := seedUser(store, true)
	acc := seedAccount(store, user.ID, money.Zero, models.AccountFrozen, models.AccountChecking)

	_, err := e.Deposit(context.Background(), acc.ID, amt("10"), "", "")
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindPreconditionFailed, apperrors.KindOf(err))
}

func TestDeposit_IdempotentOnReferenceID(t *testing.T) {
	e, store, _ := newEngine(t)
	user := seedUser(store, true)
	acc := seedAccount(store, user.ID, money.Zero, models.AccountActive, models.AccountChecking)

	id1, err := e.Deposit(context.Background(), acc.ID, amt("50"), "", "dep-ref-1")
	require.NoError(t, err)
	id2, err := e.Deposit(context.Background(), acc.ID, amt("50"), "", "dep-ref-1")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	got, _ := store.GetAccount(context.Background(), acc.ID)
	assert.Equal(t, "50.0000", got.CurrentBalance.String())
}

func TestWithdraw_RejectsInsufficientFunds(t *testing.T) {
	e, store, _ := newEngine(t)
	user := seedUser(store, true)
	acc := seedAccount(store, user.ID, amt("10"), models.AccountActive, models.AccountChecking)

	_, err := e.Withdraw(context.Background(), acc.ID, amt("10.01"), "", "")
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindPreconditionFailed, apperrors.KindOf(err))

	got, _ := store.GetAccount(context.Background(), acc.ID)
	assert.Equal(t, "10.0000", got.CurrentBalance.String(), "balance must be unchanged on a rejected withdrawal")
}

func TestWithdraw_LoanAccountAllowsNegative(t *testing.T) {
	e, store, _ := newEngine(t)
	user := seedUser(store, true)
	acc := seedAccount(store, user.ID, money.Zero, models.AccountActive, models.AccountLoan)

	_, err := e.Withdraw(context.Background(), acc.ID, amt("500"), "", "")
	require.NoError(t, err)

	got, _ := store.GetAccount(context.Background(), acc.ID)
	assert.Equal(t, "-500.0000", got.CurrentBalance.String())
}

func TestTransfer_MovesBalanceBetweenAccounts(t *testing.T) {
	e, store, capture := newEngine(t)
	user := seedUser(store, true)
	from := seedAccount(store, user.ID, amt("1000"), models.AccountActive, models.AccountChecking)
	to := seedAccount(store, user.ID, money.Zero, models.AccountActive, models.AccountSavings)

	result, err := e.Transfer(context.Background(), from.ID, to.ID, amt("300"), nil, "rent", "")
	require.NoError(t, err)
	assert.Equal(t, "700.0000", result.SenderBalance.String())
	assert.Equal(t, "300.0000", result.ReceiverBalance.String())
	assert.Equal(t, models.TxCompleted, result.Status)
	assert.Len(t, capture.TransactionCompletedEvents(), 1)

	gotFrom, _ := store.GetAccount(context.Background(), from.ID)
	gotTo, _ := store.GetAccount(context.Background(), to.ID)
	assert.Equal(t, "700.0000", gotFrom.CurrentBalance.String())
	assert.Equal(t, "300.0000", gotTo.CurrentBalance.String())
}

func TestTransfer_RejectsSameAccount(t *testing.T) {
	e, store, _ := newEngine(t)
	user := seedUser(store, true)
	acc := seedAccount(store, user.ID, amt("100"), models.AccountActive, models.AccountChecking)

	_, err := e.Transfer(context.Background(), acc.ID, acc.ID, amt("10"), nil, "", "")
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindPreconditionFailed, apperrors.KindOf(err))
}

func TestTransfer_RejectsCurrencyMismatch(t *testing.T) {
	e, store, _ := newEngine(t)
	user := seedUser(store, true)
	from := store.PutAccount(&models.Account{UserID: user.ID, AccountNumber: "CK1", AccountType: models.AccountChecking, Currency: "USD", CurrentBalance: amt("100"), Status: models.AccountActive})
	to := store.PutAccount(&models.Account{UserID: user.ID, AccountNumber: "CK2", AccountType: models.AccountSavings, Currency: "EUR", CurrentBalance: money.Zero, Status: models.AccountActive})

	_, err := e.Transfer(context.Background(), from.ID, to.ID, amt("10"), nil, "", "")
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindPreconditionFailed, apperrors.KindOf(err))
}

func TestTransfer_RejectsNegativeOrZeroAmount(t *testing.T) {
	e, store, _ := newEngine(t)
	user := seedUser(store, true)
	from := seedAccount(store, user.ID, amt("100"), models.AccountActive, models.AccountChecking)
	to := seedAccount(store, user.ID, money.Zero, models.AccountActive, models.AccountSavings)

	_, err := e.Transfer(context.Background(), from.ID, to.ID, money.Zero, nil, "", "")
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestTransfer_FailureLeavesBalancesUntouched(t *testing.T) {
	e, store, capture := newEngine(t)
	user := seedUser(store, true)
	from := seedAccount(store, user.ID, amt("50"), models.AccountActive, models.AccountChecking)
	to := seedAccount(store, user.ID, money.Zero, models.AccountActive, models.AccountSavings)

	_, err := e.Transfer(context.Background(), from.ID, to.ID, amt("1000"), nil, "", "")
	assert.Error(t, err)

	gotFrom, _ := store.GetAccount(context.Background(), from.ID)
	gotTo, _ := store.GetAccount(context.Background(), to.ID)
	assert.Equal(t, "50.0000", gotFrom.CurrentBalance.String())
	assert.Equal(t, "0.0000", gotTo.CurrentBalance.String())
	assert.Len(t, capture.TransactionFailedEvents(), 1)
}

func TestFreezeAccount_TogglesStatus(t *testing.T) {
	e, store, _ := newEngine(t)
	user := seedUser(store, true)
	acc := seedAccount(store, user.ID, money.Zero, models.AccountActive, models.AccountChecking)
	employee := models.EmployeePrincipal("emp-1")

	status, err := e.FreezeAccount(context.Background(), acc.ID, employee)
	require.NoError(t, err)
	assert.Equal(t, models.AccountFrozen, status)

	status, err = e.FreezeAccount(context.Background(), acc.ID, employee)
	require.NoError(t, err)
	assert.Equal(t, models.AccountActive, status)
}

func TestCloseAccount_RequiresZeroBalance(t *testing.T) {
	e, store, _ := newEngine(t)
	user := seedUser(store, true)
	acc := seedAccount(store, user.ID, amt("5.00"), models.AccountActive, models.AccountChecking)

	err := e.CloseAccount(context.Background(), acc.ID, nil)
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindPreconditionFailed, apperrors.KindOf(err))
}

func TestCloseAccount_Success(t *testing.T) {
	e, store, _ := newEngine(t)
	user := seedUser(store, true)
	acc := seedAccount(store, user.ID, money.Zero, models.AccountActive, models.AccountChecking)

	require.NoError(t, e.CloseAccount(context.Background(), acc.ID, nil))

	got, _ := store.GetAccount(context.Background(), acc.ID)
	assert.Equal(t, models.AccountClosed, got.Status)

	err := e.CloseAccount(context.Background(), acc.ID, nil)
	assert.Error(t, err, "closing an already-closed account must fail")
}
