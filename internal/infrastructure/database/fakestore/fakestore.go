// Package fakestore is an in-memory database.Store used by engine and
// admin unit tests, grounded on the teacher's in-memory database.Repository
// test double (src/db/inMemoryDB.go before it was superseded) but built
// against this module's Store/Tx interfaces instead of the teacher's
// int-cents Account map.
//
// A single mutex stands in for row-level locking: WithTx holds it for the
// whole closure, which is stricter than real per-row locks but never
// produces a false invariant violation in a test, only false serialization
// (acceptable for the property and table-driven tests that use it).
package fakestore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"core-banking-ledger/internal/domain/models"
	"core-banking-ledger/internal/infrastructure/database"
	"core-banking-ledger/internal/pkg/apperrors"
	"core-banking-ledger/internal/pkg/money"
)

type Store struct {
	mu sync.Mutex

	accounts  map[int64]*models.Account
	users     map[int64]*models.User
	employees map[string]*models.Employee
	txns      map[int64]*models.Transaction
	entries   []*models.TransactionEntry
	audit     []*models.AuditLog

	nextAccountID int64
	nextUserID    int64
	nextTxID      int64
	nextEntryID   int64
	nextAuditID   int64
}

func New() *Store {
	return &Store{
		accounts:  make(map[int64]*models.Account),
		users:     make(map[int64]*models.User),
		employees: make(map[string]*models.Employee),
		txns:      make(map[int64]*models.Transaction),
	}
}

// PutUser seeds a user directly, bypassing any transaction. Test setup only.
func (s *Store) PutUser(u *models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	u.ID = s.nextUserID
	cp := *u
	s.users[u.ID] = &cp
	out := *u
	return &out
}

// PutEmployee seeds an employee directly. Test setup only.
func (s *Store) PutEmployee(e *models.Employee) *models.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.employees[e.ID] = &cp
	out := *e
	return &out
}

// PutAccount seeds an account directly with a caller-chosen balance and
// status, skipping CreateAccount's guards. Test setup only.
func (s *Store) PutAccount(a *models.Account) *models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAccountID++
	a.ID = s.nextAccountID
	cp := *a
	s.accounts[a.ID] = &cp
	out := *a
	return &out
}

func (s *Store) WithTx(ctx context.Context, fn func(database.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&tx{s: s})
}

func (s *Store) GetAccount(ctx context.Context, accountID int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.NotFound(apperrors.ErrAccountNotFound, "account %d not found", accountID)
	}
	cp := *acc
	return &cp, nil
}

func (s *Store) GetAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.AccountNumber == accountNumber {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound(apperrors.ErrAccountNotFound, "account %q not found", accountNumber)
}

func (s *Store) ListAccountsForUser(ctx context.Context, userID int64) ([]*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Account
	for _, acc := range sortedAccounts(s.accounts) {
		if acc.UserID == userID {
			cp := *acc
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.NotFound(apperrors.ErrUserNotFound, "user %d not found", userID)
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[employeeID]
	if !ok {
		return nil, apperrors.NotFound(apperrors.ErrUserNotFound, "employee %q not found", employeeID)
	}
	cp := *e
	return &cp, nil
}

func (s *Store) GetTransactionByReference(ctx context.Context, referenceID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.txns {
		if t.ReferenceID == referenceID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) GetTransaction(ctx context.Context, transactionID int64) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txns[transactionID]
	if !ok {
		return nil, apperrors.NotFound(apperrors.ErrTransactionNotFound, "transaction %d not found", transactionID)
	}
	cp := *t
	return &cp, nil
}

func (s *Store) ListEntriesForTransaction(ctx context.Context, transactionID int64) ([]*models.TransactionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.TransactionEntry
	for _, e := range s.entries {
		if e.TransactionID == transactionID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) BalanceSheet(ctx context.Context) ([]database.CurrencyTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	totals := make(map[string]money.Amount)
	for _, acc := range s.accounts {
		totals[acc.Currency] = totals[acc.Currency].Add(acc.CurrentBalance)
	}
	var out []database.CurrencyTotal
	for cur, total := range totals {
		out = append(out, database.CurrencyTotal{Currency: cur, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}

func (s *Store) LedgerIntegrityViolations(ctx context.Context, tolerance money.Amount) ([]database.IntegrityViolation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sums := make(map[int64]money.Amount)
	for _, e := range s.entries {
		if t := s.txns[e.TransactionID]; t == nil || t.Status != models.TxCompleted {
			continue
		}
		sums[e.TransactionID] = sums[e.TransactionID].Add(e.Amount)
	}
	var out []database.IntegrityViolation
	for txnID, sum := range sums {
		if sum.Abs().GreaterThan(tolerance) {
			t := s.txns[txnID]
			ref := ""
			if t != nil {
				ref = t.ReferenceID
			}
			out = append(out, database.IntegrityViolation{TransactionID: txnID, ReferenceID: ref, Sum: sum})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionID < out[j].TransactionID })
	return out, nil
}

func (s *Store) CustomerStatement(ctx context.Context, userID int64, limit, offset int) ([]database.StatementLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var accountIDs []int64
	for _, acc := range s.accounts {
		if acc.UserID == userID {
			accountIDs = append(accountIDs, acc.ID)
		}
	}
	return s.statementFor(accountIDs, limit, offset), nil
}

func (s *Store) FlaggedTransactions(ctx context.Context, limit, offset int) ([]database.FlaggedTransaction, error) {
	return nil, nil
}

func (s *Store) MiniStatement(ctx context.Context, accountID int64, n int) ([]database.StatementLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.statementFor([]int64{accountID}, 0, 0)
	if n > 0 && n < len(lines) {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

func (s *Store) History(ctx context.Context, userID int64, filter database.HistoryFilter) ([]database.StatementLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var accountIDs []int64
	for _, acc := range s.accounts {
		if acc.UserID == userID {
			accountIDs = append(accountIDs, acc.ID)
		}
	}
	lines := s.statementFor(accountIDs, 0, 0)
	var out []database.StatementLine
	for _, l := range lines {
		if filter.TypeCode != nil && l.TypeCode != *filter.TypeCode {
			continue
		}
		if filter.MinAmount != nil && l.Amount.Abs().LessThan(*filter.MinAmount) {
			continue
		}
		if filter.MaxAmount != nil && l.Amount.Abs().GreaterThan(*filter.MaxAmount) {
			continue
		}
		out = append(out, l)
	}
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (s *Store) statementFor(accountIDs []int64, limit, offset int) []database.StatementLine {
	set := make(map[int64]bool, len(accountIDs))
	for _, id := range accountIDs {
		set[id] = true
	}
	var out []database.StatementLine
	for _, e := range s.entries {
		if !set[e.AccountID] {
			continue
		}
		t := s.txns[e.TransactionID]
		if t == nil {
			continue
		}
		out = append(out, database.StatementLine{
			Date:         e.CreatedAt,
			AccountID:    e.AccountID,
			TypeCode:     t.TypeCode,
			Description:  t.Description,
			Amount:       e.Amount,
			BalanceAfter: e.BalanceAfter,
			Status:       t.Status,
		})
	}
	return paginate(out, limit, offset)
}

func paginate(lines []database.StatementLine, limit, offset int) []database.StatementLine {
	if offset >= len(lines) {
		return nil
	}
	lines = lines[offset:]
	if limit > 0 && limit < len(lines) {
		lines = lines[:limit]
	}
	return lines
}

func (s *Store) ListUsers(ctx context.Context, filter database.UserFilter) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.User
	for _, id := range sortedUserIDs(s.users) {
		u := s.users[id]
		if filter.KYCStatus != nil && u.KYCStatus != *filter.KYCStatus {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	return clampUsers(out, filter.Limit, filter.Offset), nil
}

func (s *Store) ListAccounts(ctx context.Context, filter database.AccountFilter) ([]*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Account
	for _, acc := range sortedAccounts(s.accounts) {
		if filter.UserID != nil && acc.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && acc.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && acc.AccountType != *filter.Type {
			continue
		}
		cp := *acc
		out = append(out, &cp)
	}
	return clampAccounts(out, filter.Limit, filter.Offset), nil
}

func (s *Store) ListTransactions(ctx context.Context, filter database.TransactionFilter) ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Transaction
	for _, id := range sortedTxnIDs(s.txns) {
		t := s.txns[id]
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.TypeCode != nil && t.TypeCode != *filter.TypeCode {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return clampTxns(out, filter.Limit, filter.Offset), nil
}

func (s *Store) ListAuditLogs(ctx context.Context, filter database.AuditFilter) ([]*models.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.AuditLog
	for _, a := range s.audit {
		if filter.EntityType != nil && a.EntityType != *filter.EntityType {
			continue
		}
		if filter.EntityID != nil && a.EntityID != *filter.EntityID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return clampAudit(out, filter.Limit, filter.Offset), nil
}

func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s = *New()
	return nil
}

func (s *Store) Close() {}

type tx struct {
	s *Store
}

func (t *tx) LockAccount(ctx context.Context, accountID int64) (*models.Account, error) {
	acc, ok := t.s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("lock account %d: %w", accountID, apperrors.ErrAccountNotFound)
	}
	cp := *acc
	return &cp, nil
}

func (t *tx) LockUser(ctx context.Context, userID int64) (*models.User, error) {
	u, ok := t.s.users[userID]
	if !ok {
		return nil, fmt.Errorf("lock user %d: %w", userID, apperrors.ErrUserNotFound)
	}
	cp := *u
	return &cp, nil
}

func (t *tx) UpdateAccountBalance(ctx context.Context, accountID int64, newBalance money.Amount) error {
	acc, ok := t.s.accounts[accountID]
	if !ok {
		return fmt.Errorf("update balance: account %d not found", accountID)
	}
	acc.CurrentBalance = newBalance
	return nil
}

func (t *tx) UpdateAccountStatus(ctx context.Context, accountID int64, status models.AccountStatus) error {
	acc, ok := t.s.accounts[accountID]
	if !ok {
		return fmt.Errorf("update status: account %d not found", accountID)
	}
	acc.Status = status
	return nil
}

func (t *tx) InsertAccount(ctx context.Context, acc *models.Account) (*models.Account, error) {
	for _, existing := range t.s.accounts {
		if existing.AccountNumber == acc.AccountNumber {
			return nil, fmt.Errorf("account number %q already exists", acc.AccountNumber)
		}
	}
	t.s.nextAccountID++
	cp := *acc
	cp.ID = t.s.nextAccountID
	t.s.accounts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (t *tx) CountAccountsForUser(ctx context.Context, userID int64) (int, error) {
	n := 0
	for _, acc := range t.s.accounts {
		if acc.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (t *tx) UpdateUserStatus(ctx context.Context, userID int64, isActive bool, kyc models.KYCStatus) error {
	u, ok := t.s.users[userID]
	if !ok {
		return fmt.Errorf("update user status: user %d not found", userID)
	}
	u.IsActive = isActive
	u.KYCStatus = kyc
	return nil
}

func (t *tx) GetTransactionByReference(ctx context.Context, referenceID string) (*models.Transaction, error) {
	for _, txn := range t.s.txns {
		if txn.ReferenceID == referenceID {
			cp := *txn
			return &cp, nil
		}
	}
	return nil, nil
}

func (t *tx) InsertTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	t.s.nextTxID++
	cp := *txn
	cp.ID = t.s.nextTxID
	cp.CreatedAt = time.Now()
	t.s.txns[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (t *tx) UpdateTransactionStatus(ctx context.Context, transactionID int64, status models.TransactionStatus, completedAt *time.Time) error {
	txn, ok := t.s.txns[transactionID]
	if !ok {
		return fmt.Errorf("update transaction status: transaction %d not found", transactionID)
	}
	txn.Status = status
	txn.CompletedAt = completedAt
	return nil
}

func (t *tx) InsertEntry(ctx context.Context, entry *models.TransactionEntry) (*models.TransactionEntry, error) {
	t.s.nextEntryID++
	cp := *entry
	cp.ID = t.s.nextEntryID
	cp.CreatedAt = time.Now()
	t.s.entries = append(t.s.entries, &cp)
	out := cp
	return &out, nil
}

func (t *tx) InsertAuditLog(ctx context.Context, log *models.AuditLog) error {
	t.s.nextAuditID++
	cp := *log
	cp.ID = t.s.nextAuditID
	t.s.audit = append(t.s.audit, &cp)
	return nil
}

func sortedAccounts(m map[int64]*models.Account) []*models.Account {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*models.Account, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

func sortedUserIDs(m map[int64]*models.User) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedTxnIDs(m map[int64]*models.Transaction) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func clampUsers(in []*models.User, limit, offset int) []*models.User {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

func clampAccounts(in []*models.Account, limit, offset int) []*models.Account {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

func clampTxns(in []*models.Transaction, limit, offset int) []*models.Transaction {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

func clampAudit(in []*models.AuditLog, limit, offset int) []*models.AuditLog {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
