package admin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"core-banking-ledger/internal/config"
	"core-banking-ledger/internal/domain/admin"
	"core-banking-ledger/internal/domain/ledger"
	"core-banking-ledger/internal/domain/models"
	"core-banking-ledger/internal/infrastructure/database"
	"core-banking-ledger/internal/infrastructure/database/fakestore"
	"core-banking-ledger/internal/infrastructure/messaging"
	"core-banking-ledger/internal/pkg/apperrors"
	"core-banking-ledger/internal/pkg/money"
)

func newOperations(t *testing.T) (*admin.Operations, *fakestore.Store) {
	t.Helper()
	store := fakestore.New()
	engine := ledger.New(store, messaging.NewNoOpEventPublisher(), config.LedgerConfig{DefaultCurrency: "USD"})
	return admin.New(store, engine), store
}

func TestRequireEmployee_RejectsUnknown(t *testing.T) {
	ops, store := newOperations(t)
	user := store.PutUser(&models.User{Username: "bob", IsActive: true})

	_, err := ops.SetUserActive(context.Background(), "no-such-employee", user.ID, false)
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestRequireEmployee_RejectsInactive(t *testing.T) {
	ops, store := newOperations(t)
	store.PutEmployee(&models.Employee{ID: "emp-1", IsActive: false})
	user := store.PutUser(&models.User{Username: "bob", IsActive: true})

	_, err := ops.SetUserActive(context.Background(), "emp-1", user.ID, false)
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestSetKYCStatus(t *testing.T) {
	ops, store := newOperations(t)
	store.PutEmployee(&models.Employee{ID: "emp-1", IsActive: true})
	user := store.PutUser(&models.User{Username: "bob", IsActive: true, KYCStatus: models.KYCPending})

	updated, err := ops.SetKYCStatus(context.Background(), "emp-1", user.ID, models.KYCVerified)
	require.NoError(t, err)
	assert.Equal(t, models.KYCVerified, updated.KYCStatus)
}

func TestCreateAccountForUser_Attributed(t *testing.T) {
	ops, store := newOperations(t)
	store.PutEmployee(&models.Employee{ID: "emp-1", IsActive: true})
	user := store.PutUser(&models.User{Username: "bob", IsActive: true})

	acc, err := ops.CreateAccountForUser(context.Background(), "emp-1", user.ID, models.AccountSavings, "USD")
	require.NoError(t, err)
	assert.Equal(t, user.ID, acc.UserID)
	assert.Equal(t, models.AccountSavings, acc.AccountType)
}

func TestFreezeAndCloseAccount(t *testing.T) {
	ops, store := newOperations(t)
	store.PutEmployee(&models.Employee{ID: "emp-1", IsActive: true})
	user := store.PutUser(&models.User{Username: "bob", IsActive: true})
	acc := store.PutAccount(&models.Account{
		UserID: user.ID, AccountNumber: "CK00000001", AccountType: models.AccountChecking,
		Currency: "USD", CurrentBalance: money.Zero, Status: models.AccountActive,
	})

	status, err := ops.FreezeAccount(context.Background(), "emp-1", acc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AccountFrozen, status)

	_, err = ops.FreezeAccount(context.Background(), "emp-1", acc.ID)
	require.NoError(t, err)

	require.NoError(t, ops.CloseAccount(context.Background(), "emp-1", acc.ID))
	got, _ := store.GetAccount(context.Background(), acc.ID)
	assert.Equal(t, models.AccountClosed, got.Status)
}

func TestListUsers_FiltersByActive(t *testing.T) {
	ops, store := newOperations(t)
	store.PutEmployee(&models.Employee{ID: "emp-1", IsActive: true})
	store.PutUser(&models.User{Username: "active-user", IsActive: true})
	store.PutUser(&models.User{Username: "inactive-user", IsActive: false})

	active := true
	users, err := ops.ListUsers(context.Background(), "emp-1", database.UserFilter{IsActive: &active})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.True(t, users[0].IsActive)
}
