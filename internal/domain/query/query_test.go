package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"core-banking-ledger/internal/config"
	"core-banking-ledger/internal/domain/ledger"
	"core-banking-ledger/internal/domain/models"
	"core-banking-ledger/internal/domain/query"
	"core-banking-ledger/internal/infrastructure/database/fakestore"
	"core-banking-ledger/internal/infrastructure/messaging"
	"core-banking-ledger/internal/pkg/money"
)

func amt(s string) money.Amount {
	a, err := money.New(s)
	if err != nil {
		panic(err)
	}
	return a
}

func TestBalanceSheet_SumsByCurrency(t *testing.T) {
	store := fakestore.New()
	user := store.PutUser(&models.User{Username: "alice", IsActive: true})
	store.PutAccount(&models.Account{UserID: user.ID, AccountNumber: "A1", AccountType: models.AccountChecking, Currency: "USD", CurrentBalance: amt("100")})
	store.PutAccount(&models.Account{UserID: user.ID, AccountNumber: "A2", AccountType: models.AccountSavings, Currency: "USD", CurrentBalance: amt("50")})
	store.PutAccount(&models.Account{UserID: user.ID, AccountNumber: "A3", AccountType: models.AccountChecking, Currency: "EUR", CurrentBalance: amt("20")})

	views := query.New(store)
	totals, err := views.BalanceSheet(context.Background())
	require.NoError(t, err)
	require.Len(t, totals, 2)

	byCurrency := map[string]string{}
	for _, total := range totals {
		byCurrency[total.Currency] = total.Total.String()
	}
	assert.Equal(t, "150.0000", byCurrency["USD"])
	assert.Equal(t, "20.0000", byCurrency["EUR"])
}

func TestLedgerIntegrityCheck_HealthyLedgerHasNoViolations(t *testing.T) {
	store := fakestore.New()
	engine := ledger.New(store, messaging.NewNoOpEventPublisher(), config.LedgerConfig{DefaultCurrency: "USD"})
	user := store.PutUser(&models.User{Username: "alice", IsActive: true})
	from := store.PutAccount(&models.Account{UserID: user.ID, AccountNumber: "A1", AccountType: models.AccountChecking, Currency: "USD", CurrentBalance: amt("1000")})
	to := store.PutAccount(&models.Account{UserID: user.ID, AccountNumber: "A2", AccountType: models.AccountSavings, Currency: "USD"})

	_, err := engine.Transfer(context.Background(), from.ID, to.ID, amt("100"), nil, "", "")
	require.NoError(t, err)

	views := query.New(store)
	violations, err := views.LedgerIntegrityCheck(context.Background())
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestCustomerStatement_ReturnsEntriesAcrossAccounts(t *testing.T) {
	store := fakestore.New()
	engine := ledger.New(store, messaging.NewNoOpEventPublisher(), config.LedgerConfig{DefaultCurrency: "USD"})
	user := store.PutUser(&models.User{Username: "alice", IsActive: true})
	acc := store.PutAccount(&models.Account{UserID: user.ID, AccountNumber: "A1", AccountType: models.AccountChecking, Currency: "USD"})

	_, err := engine.Deposit(context.Background(), acc.ID, amt("250"), "payday", "")
	require.NoError(t, err)

	views := query.New(store)
	lines, err := views.CustomerStatement(context.Background(), user.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "250.0000", lines[0].Amount.String())
	assert.Equal(t, models.TxDeposit, lines[0].TypeCode)
}

func TestGetTransaction_ReturnsHeaderAndEntries(t *testing.T) {
	store := fakestore.New()
	engine := ledger.New(store, messaging.NewNoOpEventPublisher(), config.LedgerConfig{DefaultCurrency: "USD"})
	user := store.PutUser(&models.User{Username: "alice", IsActive: true})
	from := store.PutAccount(&models.Account{UserID: user.ID, AccountNumber: "A1", AccountType: models.AccountChecking, Currency: "USD", CurrentBalance: amt("500")})
	to := store.PutAccount(&models.Account{UserID: user.ID, AccountNumber: "A2", AccountType: models.AccountSavings, Currency: "USD"})

	result, err := engine.Transfer(context.Background(), from.ID, to.ID, amt("75"), nil, "", "")
	require.NoError(t, err)

	views := query.New(store)
	txn, entries, err := views.GetTransaction(context.Background(), result.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, models.TxTransfer, txn.TypeCode)
	assert.Len(t, entries, 2)
}
