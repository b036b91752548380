// Package query implements the Query/View Layer of spec §4.4: read-only
// projections that observe a consistent snapshot and never block a
// mutation. Every method here is a thin pass-through to the Store's own
// read methods — the Store is responsible for snapshot isolation (its
// pgx implementation runs each read as a single SQL statement on the pool,
// which sees one statement-level snapshot); this layer's
// job is pagination clamping and assembling the response shapes the API
// layer serializes.
package query

import (
	"context"

	"core-banking-ledger/internal/domain/models"
	"core-banking-ledger/internal/infrastructure/database"
	"core-banking-ledger/internal/pkg/money"
)

type Views struct {
	store database.Store
}

func New(store database.Store) *Views {
	return &Views{store: store}
}

// BalanceSheet returns, per currency, the sum of current_balance across all
// accounts — the institution's total liability to its users.
func (v *Views) BalanceSheet(ctx context.Context) ([]database.CurrencyTotal, error) {
	return v.store.BalanceSheet(ctx)
}

// DefaultIntegrityTolerance is the maximum absolute per-transaction entry
// sum spec §4.4 allows before flagging it as a violation.
var DefaultIntegrityTolerance = mustAmount("0.0001")

// LedgerIntegrityCheck returns every completed transaction whose entries'
// amounts don't sum to (approximately) zero. A healthy ledger returns no
// rows (I1).
func (v *Views) LedgerIntegrityCheck(ctx context.Context) ([]database.IntegrityViolation, error) {
	return v.store.LedgerIntegrityViolations(ctx, DefaultIntegrityTolerance)
}

// CustomerStatement returns a time-ordered list of every entry across a
// user's accounts.
func (v *Views) CustomerStatement(ctx context.Context, userID int64, limit, offset int) ([]database.StatementLine, error) {
	return v.store.CustomerStatement(ctx, userID, database.ClampLimit(limit), offset)
}

// FlaggedTransactions returns transactions joined against risk scores with
// verdict SUSPICIOUS or CRITICAL, ordered by risk score descending.
func (v *Views) FlaggedTransactions(ctx context.Context, limit, offset int) ([]database.FlaggedTransaction, error) {
	return v.store.FlaggedTransactions(ctx, database.ClampLimit(limit), offset)
}

// MiniStatement returns the last n entries for one account with running
// balance_after.
func (v *Views) MiniStatement(ctx context.Context, accountID int64, n int) ([]database.StatementLine, error) {
	return v.store.MiniStatement(ctx, accountID, database.ClampLimit(n))
}

// History returns a paginated, filtered view of entries across a user's
// accounts.
func (v *Views) History(ctx context.Context, userID int64, filter database.HistoryFilter) ([]database.StatementLine, error) {
	filter.Limit = database.ClampLimit(filter.Limit)
	return v.store.History(ctx, userID, filter)
}

// GetAccount is a convenience passthrough used by API handlers rendering a
// single account's current state (e.g. after a mutation).
func (v *Views) GetAccount(ctx context.Context, accountID int64) (*models.Account, error) {
	return v.store.GetAccount(ctx, accountID)
}

// GetTransaction returns a transaction header with its entries.
func (v *Views) GetTransaction(ctx context.Context, transactionID int64) (*models.Transaction, []*models.TransactionEntry, error) {
	txn, err := v.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := v.store.ListEntriesForTransaction(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}
	return txn, entries, nil
}

func mustAmount(s string) money.Amount {
	a, err := money.New(s)
	if err != nil {
		panic(err)
	}
	return a
}
