package messaging

import "time"

// TransactionCompletedEvent is published after any Deposit, Withdraw, or
// Transfer commits. It carries enough of the transaction header plus its
// entries for a downstream consumer (the out-of-scope monitoring dashboard,
// or the anomaly-scoring worker) to react without querying the ledger
// tables directly. The ledger never blocks on or reads back from this
// stream — publishing is fire-and-forget, same as the teacher's deposit/
// withdraw events.
type TransactionCompletedEvent struct {
	TransactionID int64      `json:"transaction_id"`
	ReferenceID   string     `json:"reference_id"`
	TypeCode      string     `json:"type_code"`
	Entries       []EntryDTO `json:"entries"`
	Timestamp     time.Time  `json:"timestamp"`
}

type EntryDTO struct {
	AccountID    int64  `json:"account_id"`
	Amount       string `json:"amount"` // decimal string, scale 4
	BalanceAfter string `json:"balance_after"`
}

// TransactionFailedEvent is published when a mutating operation is
// rejected, for observability outside the ledger itself.
type TransactionFailedEvent struct {
	TypeCode  string    `json:"type_code"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// AccountCreatedEvent is published after CreateAccount commits.
type AccountCreatedEvent struct {
	AccountID     int64     `json:"account_id"`
	UserID        int64     `json:"user_id"`
	AccountNumber string    `json:"account_number"`
	Currency      string    `json:"currency"`
	Timestamp     time.Time `json:"timestamp"`
}

// AccountStatusChangedEvent is published on freeze/unfreeze/close.
type AccountStatusChangedEvent struct {
	AccountID int64     `json:"account_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Timestamp time.Time `json:"timestamp"`
}
