// Package ledger implements the transactional core of spec §4.1: Transfer,
// Deposit, Withdraw, CreateAccount, FreezeAccount, and CloseAccount. Every
// operation opens exactly one Store transaction, takes its account locks in
// ascending account_id order, validates with the guards package, writes
// header + entries + balances + audit rows, and commits — grounded on the
// teacher's AtomicTransfer/AtomicWithdraw/AtomicDepositWithIdempotency
// methods and on punchamoorthee/ledgerops's ProcessTransfer (deterministic
// two-row locking inside one pgx transaction).
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"core-banking-ledger/internal/config"
	"core-banking-ledger/internal/domain/audit"
	"core-banking-ledger/internal/domain/guards"
	"core-banking-ledger/internal/domain/models"
	"core-banking-ledger/internal/infrastructure/database"
	"core-banking-ledger/internal/infrastructure/messaging"
	"core-banking-ledger/internal/pkg/accountnumber"
	"core-banking-ledger/internal/pkg/apperrors"
	"core-banking-ledger/internal/pkg/logging"
	"core-banking-ledger/internal/pkg/metrics"
	"core-banking-ledger/internal/pkg/money"
)

// Engine is the Ledger Engine of spec §4.1.
type Engine struct {
	store     database.Store
	audit     *audit.Recorder
	publisher messaging.EventPublisher
	cfg       config.LedgerConfig
}

func New(store database.Store, publisher messaging.EventPublisher, cfg config.LedgerConfig) *Engine {
	return &Engine{
		store:     store,
		audit:     audit.New(),
		publisher: publisher,
		cfg:       cfg,
	}
}

// TransferResult is returned by Transfer.
type TransferResult struct {
	TransactionID int64
	ReferenceID   string
	Status        models.TransactionStatus
	SenderBalance money.Amount
	ReceiverBalance money.Amount
}

// Transfer moves amount from senderAccountID to receiverAccountID as a
// single balanced TRANSFER transaction (I1).
func (e *Engine) Transfer(ctx context.Context, senderAccountID, receiverAccountID int64, amount money.Amount, initiatorUserID *int64, description, referenceID string) (*TransferResult, error) {
	if !amount.IsPositive() {
		return nil, apperrors.InvalidInput(apperrors.ErrInvalidAmount, "transfer amount must be positive, got %s", amount)
	}
	if senderAccountID == receiverAccountID {
		return nil, apperrors.PreconditionFailed(apperrors.ErrSameAccount, "cannot transfer to the same account %d", senderAccountID)
	}
	if referenceID == "" {
		referenceID = uuid.NewString()
	}

	var result *TransferResult
	var event *messaging.TransactionCompletedEvent

	err := e.store.WithTx(ctx, func(tx database.Tx) error {
		if existing, dupErr := checkIdempotency(ctx, tx, referenceID); dupErr != nil {
			return dupErr
		} else if existing != nil {
			result = &TransferResult{TransactionID: existing.ID, ReferenceID: existing.ReferenceID, Status: existing.Status}
			return nil
		}

		firstID, secondID := senderAccountID, receiverAccountID
		if firstID > secondID {
			firstID, secondID = secondID, firstID
		}
		first, err := tx.LockAccount(ctx, firstID)
		if err != nil {
			return notFoundOrInternal(err, firstID)
		}
		second, err := tx.LockAccount(ctx, secondID)
		if err != nil {
			return notFoundOrInternal(err, secondID)
		}

		var sender, receiver *models.Account
		if first.ID == senderAccountID {
			sender, receiver = first, second
		} else {
			sender, receiver = second, first
		}

		if err := guards.AccountMutable(sender); err != nil {
			return err
		}
		if err := guards.AccountMutable(receiver); err != nil {
			return err
		}
		if sender.Currency != receiver.Currency {
			return apperrors.PreconditionFailed(apperrors.ErrCurrencyMismatch,
				"sender currency %s does not match receiver currency %s", sender.Currency, receiver.Currency)
		}

		senderNewBalance := sender.CurrentBalance.Sub(amount)
		if err := guards.NonNegativeBalance(sender, senderNewBalance); err != nil {
			return err
		}
		receiverNewBalance := receiver.CurrentBalance.Add(amount)

		txn, err := tx.InsertTransaction(ctx, &models.Transaction{
			ReferenceID:       referenceID,
			TypeCode:          models.TxTransfer,
			Description:       description,
			InitiatedByUserID: initiatorUserID,
			Status:            models.TxPending,
		})
		if err != nil {
			return apperrors.Internal("insert transaction: %v", err)
		}

		if err := guards.BalanceAfterConsistency(sender.CurrentBalance, amount.Neg(), senderNewBalance); err != nil {
			return err
		}
		if err := guards.BalanceAfterConsistency(receiver.CurrentBalance, amount, receiverNewBalance); err != nil {
			return err
		}

		if _, err := tx.InsertEntry(ctx, &models.TransactionEntry{
			TransactionID: txn.ID, AccountID: sender.ID, Amount: amount.Neg(), BalanceAfter: senderNewBalance,
		}); err != nil {
			return apperrors.Internal("insert sender entry: %v", err)
		}
		if _, err := tx.InsertEntry(ctx, &models.TransactionEntry{
			TransactionID: txn.ID, AccountID: receiver.ID, Amount: amount, BalanceAfter: receiverNewBalance,
		}); err != nil {
			return apperrors.Internal("insert receiver entry: %v", err)
		}

		if err := tx.UpdateAccountBalance(ctx, sender.ID, senderNewBalance); err != nil {
			return apperrors.Internal("update sender balance: %v", err)
		}
		if err := tx.UpdateAccountBalance(ctx, receiver.ID, receiverNewBalance); err != nil {
			return apperrors.Internal("update receiver balance: %v", err)
		}

		now := time.Now()
		if err := tx.UpdateTransactionStatus(ctx, txn.ID, models.TxCompleted, &now); err != nil {
			return apperrors.Internal("complete transaction: %v", err)
		}

		result = &TransferResult{
			TransactionID:   txn.ID,
			ReferenceID:     referenceID,
			Status:          models.TxCompleted,
			SenderBalance:   senderNewBalance,
			ReceiverBalance: receiverNewBalance,
		}
		event = &messaging.TransactionCompletedEvent{
			TransactionID: txn.ID,
			ReferenceID:   referenceID,
			TypeCode:      string(models.TxTransfer),
			Entries: []messaging.EntryDTO{
				{AccountID: sender.ID, Amount: amount.Neg().String(), BalanceAfter: senderNewBalance.String()},
				{AccountID: receiver.ID, Amount: amount.String(), BalanceAfter: receiverNewBalance.String()},
			},
			Timestamp: now,
		}
		return nil
	})

	if err != nil {
		e.publishFailure(string(models.TxTransfer), err)
		return nil, err
	}
	if event != nil {
		e.publishTransactionCompleted(*event)
		metrics.RecordTransactionAmount(amountFloat(amount))
		metrics.RecordAccountBalance(amountFloat(result.SenderBalance))
		metrics.RecordAccountBalance(amountFloat(result.ReceiverBalance))
	}
	metrics.RecordOperation("transfer", "success")
	return result, nil
}

// Deposit posts a single credit entry of amount to accountID (spec §4.1).
func (e *Engine) Deposit(ctx context.Context, accountID int64, amount money.Amount, description, referenceID string) (int64, error) {
	return e.singleLegOperation(ctx, accountID, amount, models.TxDeposit, description, referenceID)
}

// Withdraw posts a single debit entry of amount from accountID.
func (e *Engine) Withdraw(ctx context.Context, accountID int64, amount money.Amount, description, referenceID string) (int64, error) {
	return e.singleLegOperation(ctx, accountID, amount.Neg(), models.TxWithdrawal, description, referenceID)
}

// singleLegOperation implements the shared shape of Deposit and Withdraw: a
// single account lock, a single signed entry, one balance update. signed is
// positive for a deposit credit and negative for a withdrawal debit.
func (e *Engine) singleLegOperation(ctx context.Context, accountID int64, signed money.Amount, typeCode models.TransactionTypeCode, description, referenceID string) (int64, error) {
	if (typeCode == models.TxDeposit && !signed.IsPositive()) || (typeCode == models.TxWithdrawal && !signed.IsNegative()) {
		return 0, apperrors.InvalidInput(apperrors.ErrInvalidAmount, "amount must be positive")
	}
	if referenceID == "" {
		referenceID = uuid.NewString()
	}

	var transactionID int64
	var event *messaging.TransactionCompletedEvent

	err := e.store.WithTx(ctx, func(tx database.Tx) error {
		if existing, dupErr := checkIdempotency(ctx, tx, referenceID); dupErr != nil {
			return dupErr
		} else if existing != nil {
			transactionID = existing.ID
			return nil
		}

		acc, err := tx.LockAccount(ctx, accountID)
		if err != nil {
			return notFoundOrInternal(err, accountID)
		}
		if err := guards.AccountMutable(acc); err != nil {
			return err
		}

		newBalance := acc.CurrentBalance.Add(signed)
		if err := guards.NonNegativeBalance(acc, newBalance); err != nil {
			return err
		}

		txn, err := tx.InsertTransaction(ctx, &models.Transaction{
			ReferenceID: referenceID,
			TypeCode:    typeCode,
			Description: description,
			Status:      models.TxPending,
		})
		if err != nil {
			return apperrors.Internal("insert transaction: %v", err)
		}

		if err := guards.BalanceAfterConsistency(acc.CurrentBalance, signed, newBalance); err != nil {
			return err
		}

		if _, err := tx.InsertEntry(ctx, &models.TransactionEntry{
			TransactionID: txn.ID, AccountID: acc.ID, Amount: signed, BalanceAfter: newBalance,
		}); err != nil {
			return apperrors.Internal("insert entry: %v", err)
		}

		if err := tx.UpdateAccountBalance(ctx, acc.ID, newBalance); err != nil {
			return apperrors.Internal("update balance: %v", err)
		}

		now := time.Now()
		if err := tx.UpdateTransactionStatus(ctx, txn.ID, models.TxCompleted, &now); err != nil {
			return apperrors.Internal("complete transaction: %v", err)
		}

		transactionID = txn.ID
		event = &messaging.TransactionCompletedEvent{
			TransactionID: txn.ID,
			ReferenceID:   referenceID,
			TypeCode:      string(typeCode),
			Entries: []messaging.EntryDTO{
				{AccountID: acc.ID, Amount: signed.String(), BalanceAfter: newBalance.String()},
			},
			Timestamp: now,
		}
		return nil
	})

	if err != nil {
		e.publishFailure(string(typeCode), err)
		return 0, err
	}
	if event != nil {
		e.publishTransactionCompleted(*event)
		metrics.RecordTransactionAmount(amountFloat(signed.Abs()))
	}
	metrics.RecordOperation(operationLabel(typeCode), "success")
	return transactionID, nil
}

// CreateAccount opens a new account for userID (spec §4.1). Initial balance
// is zero, status active.
func (e *Engine) CreateAccount(ctx context.Context, userID int64, accountType models.AccountType, currency string) (*models.Account, error) {
	if currency == "" {
		currency = e.cfg.DefaultCurrency
	}

	var created *models.Account
	var createdEvent *messaging.AccountCreatedEvent

	err := e.store.WithTx(ctx, func(tx database.Tx) error {
		user, err := tx.LockUser(ctx, userID)
		if err != nil {
			return apperrors.NotFound(apperrors.ErrUserNotFound, "user %d not found", userID)
		}
		if !user.IsActive {
			return apperrors.PreconditionFailed(apperrors.ErrUserNotActive, "user %d is not active", userID)
		}

		if e.cfg.OneAccountPerUser {
			count, err := tx.CountAccountsForUser(ctx, userID)
			if err != nil {
				return apperrors.Internal("count accounts for user: %v", err)
			}
			if count > 0 {
				return apperrors.PreconditionFailed(apperrors.ErrAccountLimitReached,
					"user %d already has an account and one-account-per-user is enforced", userID)
			}
		}

		retries := e.cfg.AccountNumberRetries
		if retries <= 0 {
			retries = 8
		}
		var acc *models.Account
		for attempt := 0; attempt < retries; attempt++ {
			number, genErr := accountnumber.Generate()
			if genErr != nil {
				return apperrors.Internal("generate account number: %v", genErr)
			}
			acc, err = tx.InsertAccount(ctx, &models.Account{
				UserID:         userID,
				AccountNumber:  number,
				AccountType:    accountType,
				Currency:       currency,
				CurrentBalance: money.Zero,
				Status:         models.AccountActive,
			})
			if err == nil {
				break
			}
			acc = nil
		}
		if acc == nil {
			return apperrors.Internal("exhausted account number retries for user %d", userID)
		}

		if err := e.audit.RecordAccountCreate(ctx, tx, acc, models.UserPrincipal(userID)); err != nil {
			return apperrors.Internal("record account create audit: %v", err)
		}

		created = acc
		createdEvent = &messaging.AccountCreatedEvent{
			AccountID: acc.ID, UserID: userID, AccountNumber: acc.AccountNumber,
			Currency: acc.Currency, Timestamp: time.Now(),
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	metrics.RecordAccountCreation()
	metrics.RecordOperation("create_account", "success")
	if createdEvent != nil {
		if pubErr := e.publisher.PublishAccountCreated(*createdEvent); pubErr != nil {
			logging.Warn("failed to publish AccountCreatedEvent", map[string]interface{}{"error": pubErr.Error()})
		}
	}
	return created, nil
}

// FreezeAccount toggles an account between active and frozen (spec §4.1).
// performedBy attributes the audit row to the calling principal (an
// employee for admin-initiated freezes); pass nil for system-initiated
// ones.
func (e *Engine) FreezeAccount(ctx context.Context, accountID int64, performedBy *string) (models.AccountStatus, error) {
	var newStatus models.AccountStatus
	var before, after *models.Account

	err := e.store.WithTx(ctx, func(tx database.Tx) error {
		acc, err := tx.LockAccount(ctx, accountID)
		if err != nil {
			return notFoundOrInternal(err, accountID)
		}
		if acc.Status == models.AccountClosed {
			return apperrors.PreconditionFailed(apperrors.ErrAccountClosed, "account %d is closed", accountID)
		}

		beforeCopy := *acc
		if acc.Status == models.AccountFrozen {
			newStatus = models.AccountActive
		} else {
			newStatus = models.AccountFrozen
		}
		if err := tx.UpdateAccountStatus(ctx, accountID, newStatus); err != nil {
			return apperrors.Internal("update account status: %v", err)
		}
		afterCopy := beforeCopy
		afterCopy.Status = newStatus

		if err := e.audit.RecordAccountStatusChange(ctx, tx, &beforeCopy, &afterCopy, performedBy); err != nil {
			return apperrors.Internal("record account status audit: %v", err)
		}
		before, after = &beforeCopy, &afterCopy
		return nil
	})
	if err != nil {
		return "", err
	}
	e.publishStatusChange(after.ID, string(before.Status), string(after.Status))
	metrics.RecordOperation("freeze_account", "success")
	return newStatus, nil
}

// CloseAccount transitions accountID to closed, requiring a zero balance
// and that it isn't already closed (I8).
func (e *Engine) CloseAccount(ctx context.Context, accountID int64, performedBy *string) error {
	var before, after *models.Account

	err := e.store.WithTx(ctx, func(tx database.Tx) error {
		acc, err := tx.LockAccount(ctx, accountID)
		if err != nil {
			return notFoundOrInternal(err, accountID)
		}
		if err := guards.CloseEligible(acc); err != nil {
			return err
		}

		beforeCopy := *acc
		if err := tx.UpdateAccountStatus(ctx, accountID, models.AccountClosed); err != nil {
			return apperrors.Internal("update account status: %v", err)
		}
		afterCopy := beforeCopy
		afterCopy.Status = models.AccountClosed

		if err := e.audit.RecordAccountStatusChange(ctx, tx, &beforeCopy, &afterCopy, performedBy); err != nil {
			return apperrors.Internal("record account status audit: %v", err)
		}
		before, after = &beforeCopy, &afterCopy
		return nil
	})
	if err != nil {
		return err
	}
	e.publishStatusChange(after.ID, string(before.Status), string(after.Status))
	metrics.RecordOperation("close_account", "success")
	return nil
}

// checkIdempotency implements spec §4.1's idempotency contract: a
// completed transaction with the same reference_id short-circuits as
// success; a pending or failed one is reported as Duplicate so the caller
// decides (the engine never resumes a stranded pending transaction).
func checkIdempotency(ctx context.Context, tx database.Tx, referenceID string) (*models.Transaction, error) {
	existing, err := tx.GetTransactionByReference(ctx, referenceID)
	if err != nil {
		return nil, apperrors.Internal("idempotency lookup for reference %q: %v", referenceID, err)
	}
	if existing == nil {
		return nil, nil
	}
	if existing.Status == models.TxCompleted {
		return existing, nil
	}
	return nil, apperrors.Duplicate("reference_id %q already used by transaction %d in status %s",
		referenceID, existing.ID, existing.Status)
}

func notFoundOrInternal(err error, accountID int64) error {
	if apperrors.Is(err, apperrors.ErrAccountNotFound) {
		return apperrors.NotFound(apperrors.ErrAccountNotFound, "account %d not found", accountID)
	}
	if apperrors.Is(err, apperrors.ErrSerializationFailure) {
		return err
	}
	return apperrors.Internal("lock account %d: %v", accountID, err)
}

func (e *Engine) publishTransactionCompleted(event messaging.TransactionCompletedEvent) {
	if err := e.publisher.PublishTransactionCompleted(event); err != nil {
		logging.Warn("failed to publish TransactionCompletedEvent", map[string]interface{}{"error": err.Error()})
	}
}

func (e *Engine) publishStatusChange(accountID int64, oldStatus, newStatus string) {
	event := messaging.AccountStatusChangedEvent{
		AccountID: accountID, OldStatus: oldStatus, NewStatus: newStatus, Timestamp: time.Now(),
	}
	if err := e.publisher.PublishAccountStatusChanged(event); err != nil {
		logging.Warn("failed to publish AccountStatusChangedEvent", map[string]interface{}{"error": err.Error()})
	}
}

func (e *Engine) publishFailure(typeCode string, err error) {
	metrics.RecordOperation(operationLabel(models.TransactionTypeCode(typeCode)), "error")
	event := messaging.TransactionFailedEvent{
		TypeCode: typeCode, Reason: err.Error(), Timestamp: time.Now(),
	}
	if pubErr := e.publisher.PublishTransactionFailed(event); pubErr != nil {
		logging.Warn("failed to publish TransactionFailedEvent", map[string]interface{}{"error": pubErr.Error()})
	}
}

func operationLabel(typeCode models.TransactionTypeCode) string {
	switch typeCode {
	case models.TxDeposit:
		return "deposit"
	case models.TxWithdrawal:
		return "withdraw"
	case models.TxTransfer:
		return "transfer"
	default:
		return fmt.Sprintf("%v", typeCode)
	}
}

func amountFloat(a money.Amount) float64 {
	f, _ := a.Decimal().Float64()
	return f
}
