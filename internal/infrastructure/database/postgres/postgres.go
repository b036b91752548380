// Package postgres implements the database.Store and database.Tx
// interfaces on top of pgx, grounded on the teacher's PostgresRepository
// (pool setup, SELECT ... FOR UPDATE locking, ascending-id canonical lock
// ordering) and on punchamoorthee-ledgerops's use of pgx.RepeatableRead for
// the single transaction wrapping each operation.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"core-banking-ledger/internal/config"
	"core-banking-ledger/internal/domain/models"
	"core-banking-ledger/internal/infrastructure/database"
	"core-banking-ledger/internal/pkg/apperrors"
	"core-banking-ledger/internal/pkg/logging"
	"core-banking-ledger/internal/pkg/money"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	accountColumns  = `id, user_id, account_number, account_type, currency, current_balance, status, created_at`
	userColumns     = `id, username, password_hash, email, phone, full_name, date_of_birth, kyc_status, role, is_active, created_at, updated_at`
	employeeColumns = `id, password_hash, full_name, email, department, is_active, created_at, updated_at`
	txnColumns      = `id, reference_id, type_code, description, initiated_by_user_id, status, created_at, completed_at`
	auditColumns    = `id, entity_type, entity_id, action_type, old_value, new_value, performed_by, ip_address, created_at`
)

// Store is the pgx-backed implementation of database.Store.
type Store struct {
	pool *pgxpool.Pool
}

var _ database.Store = (*Store)(nil)

// New opens a connection pool and verifies it with a ping before returning.
func New(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logging.Info("postgres connection pool ready", map[string]interface{}{
		"max_conns": poolCfg.MaxConns,
		"min_conns": poolCfg.MinConns,
	})

	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
	logging.Info("postgres connection pool closed", nil)
}

// WithTx runs fn inside one RepeatableRead transaction, the engine's single
// unit of work for a mutating operation (spec §9). fn's error aborts the
// transaction; a nil error commits.
func (s *Store) WithTx(ctx context.Context, fn func(database.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return apperrors.Internal("begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgxTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return apperrors.Conflict(apperrors.ErrSerializationFailure, "commit transaction: %v", err)
		}
		return apperrors.Internal("commit transaction: %v", err)
	}
	return nil
}

// pgxTx implements database.Tx over one live pgx.Tx.
type pgxTx struct {
	tx pgx.Tx
}

var _ database.Tx = (*pgxTx)(nil)

func (t *pgxTx) LockAccount(ctx context.Context, accountID int64) (*models.Account, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, accountID)
	acc, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("lock account %d: %w", accountID, apperrors.ErrAccountNotFound)
	}
	if isSerializationFailure(err) {
		return nil, apperrors.Conflict(apperrors.ErrSerializationFailure, "lock account %d: %v", accountID, err)
	}
	return acc, err
}

func (t *pgxTx) LockUser(ctx context.Context, userID int64) (*models.User, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, userID)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("lock user %d: %w", userID, apperrors.ErrUserNotFound)
	}
	if isSerializationFailure(err) {
		return nil, apperrors.Conflict(apperrors.ErrSerializationFailure, "lock user %d: %v", userID, err)
	}
	return u, err
}

func (t *pgxTx) UpdateAccountBalance(ctx context.Context, accountID int64, newBalance money.Amount) error {
	_, err := t.tx.Exec(ctx, `UPDATE accounts SET current_balance = $1 WHERE id = $2`, newBalance, accountID)
	return err
}

func (t *pgxTx) UpdateAccountStatus(ctx context.Context, accountID int64, status models.AccountStatus) error {
	_, err := t.tx.Exec(ctx, `UPDATE accounts SET status = $1 WHERE id = $2`, status, accountID)
	return err
}

func (t *pgxTx) InsertAccount(ctx context.Context, acc *models.Account) (*models.Account, error) {
	row := t.tx.QueryRow(ctx, `
		INSERT INTO accounts (user_id, account_number, account_type, currency, current_balance, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, acc.UserID, acc.AccountNumber, acc.AccountType, acc.Currency, acc.CurrentBalance, acc.Status)

	out := *acc
	if err := row.Scan(&out.ID, &out.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("account number %q already taken: %w", acc.AccountNumber, err)
		}
		return nil, err
	}
	return &out, nil
}

func (t *pgxTx) CountAccountsForUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := t.tx.QueryRow(ctx, `SELECT count(*) FROM accounts WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func (t *pgxTx) UpdateUserStatus(ctx context.Context, userID int64, isActive bool, kyc models.KYCStatus) error {
	_, err := t.tx.Exec(ctx, `UPDATE users SET is_active = $1, kyc_status = $2, updated_at = now() WHERE id = $3`, isActive, kyc, userID)
	return err
}

func (t *pgxTx) GetTransactionByReference(ctx context.Context, referenceID string) (*models.Transaction, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+txnColumns+` FROM transactions WHERE reference_id = $1`, referenceID)
	txn, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return txn, err
}

func (t *pgxTx) InsertTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	row := t.tx.QueryRow(ctx, `
		INSERT INTO transactions (reference_id, type_code, description, initiated_by_user_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, txn.ReferenceID, txn.TypeCode, txn.Description, txn.InitiatedByUserID, txn.Status)

	out := *txn
	if err := row.Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *pgxTx) UpdateTransactionStatus(ctx context.Context, transactionID int64, status models.TransactionStatus, completedAt *time.Time) error {
	_, err := t.tx.Exec(ctx, `UPDATE transactions SET status = $1, completed_at = $2 WHERE id = $3`, status, completedAt, transactionID)
	return err
}

func (t *pgxTx) InsertEntry(ctx context.Context, entry *models.TransactionEntry) (*models.TransactionEntry, error) {
	row := t.tx.QueryRow(ctx, `
		INSERT INTO transaction_entries (transaction_id, account_id, amount, balance_after)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, entry.TransactionID, entry.AccountID, entry.Amount, entry.BalanceAfter)

	out := *entry
	if err := row.Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *pgxTx) InsertAuditLog(ctx context.Context, log *models.AuditLog) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO audit_logs (entity_type, entity_id, action_type, old_value, new_value, performed_by, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, log.EntityType, log.EntityID, log.ActionType, log.OldValue, log.NewValue, log.PerformedBy, log.IPAddress)
	return err
}

// Read-only Store methods. None of these take row locks; callers that need
// a locked, mutation-consistent read use Tx.LockAccount/LockUser instead.

func (s *Store) GetAccount(ctx context.Context, accountID int64) (*models.Account, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, accountID)
	acc, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound(apperrors.ErrAccountNotFound, "account %d not found", accountID)
	}
	return acc, err
}

func (s *Store) GetAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_number = $1`, accountNumber)
	acc, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound(apperrors.ErrAccountNotFound, "account %q not found", accountNumber)
	}
	return acc, err
}

func (s *Store) ListAccountsForUser(ctx context.Context, userID int64) ([]*models.Account, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		a, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Store) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound(apperrors.ErrUserNotFound, "user %d not found", userID)
	}
	return u, err
}

// GetEmployee returns (nil, nil) if no such employee exists, matching how
// admin.requireEmployee treats "not found" and "not active" uniformly.
func (s *Store) GetEmployee(ctx context.Context, employeeID string) (*models.Employee, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, employeeID)
	var e models.Employee
	err := row.Scan(&e.ID, &e.PasswordHash, &e.FullName, &e.Email, &e.Department, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) GetTransactionByReference(ctx context.Context, referenceID string) (*models.Transaction, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+txnColumns+` FROM transactions WHERE reference_id = $1`, referenceID)
	txn, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return txn, err
}

func (s *Store) GetTransaction(ctx context.Context, transactionID int64) (*models.Transaction, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+txnColumns+` FROM transactions WHERE id = $1`, transactionID)
	txn, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound(apperrors.ErrTransactionNotFound, "transaction %d not found", transactionID)
	}
	return txn, err
}

func (s *Store) ListEntriesForTransaction(ctx context.Context, transactionID int64) ([]*models.TransactionEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, transaction_id, account_id, amount, balance_after, created_at
		FROM transaction_entries WHERE transaction_id = $1 ORDER BY id
	`, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.TransactionEntry
	for rows.Next() {
		var e models.TransactionEntry
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.AccountID, &e.Amount, &e.BalanceAfter, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Query/View layer (spec §4.4).

func (s *Store) BalanceSheet(ctx context.Context) ([]database.CurrencyTotal, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT currency, COALESCE(SUM(current_balance), 0) AS total
		FROM accounts
		GROUP BY currency
		ORDER BY currency
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []database.CurrencyTotal
	for rows.Next() {
		var ct database.CurrencyTotal
		if err := rows.Scan(&ct.Currency, &ct.Total); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

func (s *Store) LedgerIntegrityViolations(ctx context.Context, tolerance money.Amount) ([]database.IntegrityViolation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT t.id, t.reference_id, COALESCE(SUM(e.amount), 0) AS entry_sum
		FROM transactions t
		JOIN transaction_entries e ON e.transaction_id = t.id
		WHERE t.status = 'completed'
		GROUP BY t.id, t.reference_id
		HAVING ABS(COALESCE(SUM(e.amount), 0)) > $1
	`, tolerance)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var violations []database.IntegrityViolation
	for rows.Next() {
		var v database.IntegrityViolation
		if err := rows.Scan(&v.TransactionID, &v.ReferenceID, &v.Sum); err != nil {
			return nil, err
		}
		violations = append(violations, v)
	}
	return violations, rows.Err()
}

func (s *Store) CustomerStatement(ctx context.Context, userID int64, limit, offset int) ([]database.StatementLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT t.created_at, e.account_id, t.type_code, t.description, e.amount, e.balance_after, t.status
		FROM transaction_entries e
		JOIN transactions t ON t.id = e.transaction_id
		JOIN accounts a ON a.id = e.account_id
		WHERE a.user_id = $1
		ORDER BY t.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanStatementLines(rows)
}

func (s *Store) FlaggedTransactions(ctx context.Context, limit, offset int) ([]database.FlaggedTransaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT t.id, t.reference_id, r.risk_score, r.verdict, t.created_at
		FROM transactions t
		JOIN transaction_risk_scores r ON r.transaction_id = t.id
		WHERE r.verdict IN ('SUSPICIOUS', 'CRITICAL')
		ORDER BY r.risk_score DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flagged []database.FlaggedTransaction
	for rows.Next() {
		var f database.FlaggedTransaction
		if err := rows.Scan(&f.TransactionID, &f.ReferenceID, &f.RiskScore, &f.Verdict, &f.CreatedAt); err != nil {
			return nil, err
		}
		flagged = append(flagged, f)
	}
	return flagged, rows.Err()
}

func (s *Store) MiniStatement(ctx context.Context, accountID int64, n int) ([]database.StatementLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT t.created_at, e.account_id, t.type_code, t.description, e.amount, e.balance_after, t.status
		FROM transaction_entries e
		JOIN transactions t ON t.id = e.transaction_id
		WHERE e.account_id = $1
		ORDER BY t.created_at DESC
		LIMIT $2
	`, accountID, n)
	if err != nil {
		return nil, err
	}
	return scanStatementLines(rows)
}

func (s *Store) History(ctx context.Context, userID int64, filter database.HistoryFilter) ([]database.StatementLine, error) {
	query := `
		SELECT t.created_at, e.account_id, t.type_code, t.description, e.amount, e.balance_after, t.status
		FROM transaction_entries e
		JOIN transactions t ON t.id = e.transaction_id
		JOIN accounts a ON a.id = e.account_id
		WHERE a.user_id = $1
	`
	args := []interface{}{userID}

	if filter.TypeCode != nil {
		args = append(args, *filter.TypeCode)
		query += fmt.Sprintf(" AND t.type_code = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND t.created_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND t.created_at <= $%d", len(args))
	}
	if filter.MinAmount != nil {
		args = append(args, *filter.MinAmount)
		query += fmt.Sprintf(" AND e.amount >= $%d", len(args))
	}
	if filter.MaxAmount != nil {
		args = append(args, *filter.MaxAmount)
		query += fmt.Sprintf(" AND e.amount <= $%d", len(args))
	}
	if filter.TextMatch != "" {
		args = append(args, "%"+filter.TextMatch+"%")
		query += fmt.Sprintf(" AND t.description ILIKE $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY t.created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanStatementLines(rows)
}

// Admin listing (spec §4.5).

func (s *Store) ListUsers(ctx context.Context, filter database.UserFilter) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE TRUE`
	var args []interface{}

	if filter.KYCStatus != nil {
		args = append(args, *filter.KYCStatus)
		query += fmt.Sprintf(" AND kyc_status = $%d", len(args))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		query += fmt.Sprintf(" AND role = $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Phone, &u.FullName, &u.DateOfBirth, &u.KYCStatus, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (s *Store) ListAccounts(ctx context.Context, filter database.AccountFilter) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE TRUE`
	var args []interface{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += fmt.Sprintf(" AND account_type = $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		a, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Store) ListTransactions(ctx context.Context, filter database.TransactionFilter) ([]*models.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM transactions WHERE TRUE`
	var args []interface{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.TypeCode != nil {
		args = append(args, *filter.TypeCode)
		query += fmt.Sprintf(" AND type_code = $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		var txn models.Transaction
		if err := rows.Scan(&txn.ID, &txn.ReferenceID, &txn.TypeCode, &txn.Description, &txn.InitiatedByUserID, &txn.Status, &txn.CreatedAt, &txn.CompletedAt); err != nil {
			return nil, err
		}
		txns = append(txns, &txn)
	}
	return txns, rows.Err()
}

func (s *Store) ListAuditLogs(ctx context.Context, filter database.AuditFilter) ([]*models.AuditLog, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE TRUE`
	var args []interface{}

	if filter.EntityType != nil {
		args = append(args, *filter.EntityType)
		query += fmt.Sprintf(" AND entity_type = $%d", len(args))
	}
	if filter.EntityID != nil {
		args = append(args, *filter.EntityID)
		query += fmt.Sprintf(" AND entity_id = $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.EntityType, &l.EntityID, &l.ActionType, &l.OldValue, &l.NewValue, &l.PerformedBy, &l.IPAddress, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}

// Reset truncates every table except transaction_types, whose rows are
// fixed seed data rather than test fixtures.
func (s *Store) Reset(ctx context.Context) error {
	tables := []string{
		"transaction_risk_scores",
		"audit_logs",
		"transaction_entries",
		"transactions",
		"accounts",
		"employees",
		"users",
	}
	for _, table := range tables {
		if _, err := s.pool.Exec(ctx, "TRUNCATE TABLE "+table+" RESTART IDENTITY CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// Scanning helpers, shared between pool-level queries and in-transaction
// ones since both pgxpool.Pool and pgx.Tx satisfy the same QueryRow/Query
// signatures.

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.AccountNumber, &a.AccountType, &a.Currency, &a.CurrentBalance, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanAccountRow(rows pgx.Rows) (*models.Account, error) {
	var a models.Account
	err := rows.Scan(&a.ID, &a.UserID, &a.AccountNumber, &a.AccountType, &a.Currency, &a.CurrentBalance, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Phone, &u.FullName, &u.DateOfBirth, &u.KYCStatus, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var txn models.Transaction
	err := row.Scan(&txn.ID, &txn.ReferenceID, &txn.TypeCode, &txn.Description, &txn.InitiatedByUserID, &txn.Status, &txn.CreatedAt, &txn.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func scanStatementLines(rows pgx.Rows) ([]database.StatementLine, error) {
	defer rows.Close()
	var lines []database.StatementLine
	for rows.Next() {
		var l database.StatementLine
		if err := rows.Scan(&l.Date, &l.AccountID, &l.TypeCode, &l.Description, &l.Amount, &l.BalanceAfter, &l.Status); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// isSerializationFailure reports whether err is a transient conflict under
// RepeatableRead (40001) or a detected deadlock (40P01) — both retryable by
// the caller without changing the request.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
