// Package apperrors defines the typed error kinds the ledger engine and
// admin operations report (spec §7). Transport layers (the thin HTTP API)
// map a Kind to a status code; callers inside the process read the kind with
// KindOf and match a specific business rule with errors.Is against the
// sentinel values below.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind is one of the seven error categories spec §7 names.
type Kind int

const (
	KindInvalidInput Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindPreconditionFailed
	KindDuplicate
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindNotFound:
		return "NotFound"
	case KindForbidden:
		return "Forbidden"
	case KindConflict:
		return "Conflict"
	case KindPreconditionFailed:
		return "PreconditionFailed"
	case KindDuplicate:
		return "Duplicate"
	case KindInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Sentinel errors for errors.Is matching against a specific business rule,
// independent of the wrapping LedgerError's message.
var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrSameAccount          = errors.New("same account")
	ErrAccountNotFound      = errors.New("account not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrAccountNotActive     = errors.New("account not active")
	ErrUserNotActive        = errors.New("user not active")
	ErrCurrencyMismatch     = errors.New("currency mismatch")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrDuplicateReference   = errors.New("duplicate reference")
	ErrAccountClosed        = errors.New("account closed")
	ErrAccountFrozen        = errors.New("account frozen")
	ErrNonZeroBalance       = errors.New("non-zero balance")
	ErrAlreadyClosed        = errors.New("account already closed")
	ErrAccountLimitReached  = errors.New("account limit reached")
	ErrSerializationFailure = errors.New("serialization failure")
)

// LedgerError is the concrete error type returned by the engine, guards,
// and admin operations. It carries the business Kind above transport
// concerns plus the sentinel it wraps, so callers can branch either on
// Kind() for status-code mapping or errors.Is() for the specific rule.
type LedgerError struct {
	kind    Kind
	sentinel error
	message string
}

func New(kind Kind, sentinel error, message string) *LedgerError {
	return &LedgerError{kind: kind, sentinel: sentinel, message: message}
}

func (e *LedgerError) Error() string {
	if e.message != "" {
		return e.message
	}
	if e.sentinel != nil {
		return e.sentinel.Error()
	}
	return e.kind.String()
}

func (e *LedgerError) Unwrap() error { return e.sentinel }

func (e *LedgerError) Kind() Kind { return e.kind }

// KindOf extracts the Kind of err, defaulting to KindInternal when err is
// not a *LedgerError (an unexpected failure should never be reported as a
// specific business rule it didn't actually violate).
func KindOf(err error) Kind {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.kind
	}
	return KindInternal
}

// Convenience constructors used throughout the engine and admin packages.

func InvalidInput(sentinel error, format string, args ...interface{}) *LedgerError {
	return New(KindInvalidInput, sentinel, fmt.Sprintf(format, args...))
}

func NotFound(sentinel error, format string, args ...interface{}) *LedgerError {
	return New(KindNotFound, sentinel, fmt.Sprintf(format, args...))
}

func Forbidden(format string, args ...interface{}) *LedgerError {
	return New(KindForbidden, nil, fmt.Sprintf(format, args...))
}

func Conflict(sentinel error, format string, args ...interface{}) *LedgerError {
	return New(KindConflict, sentinel, fmt.Sprintf(format, args...))
}

func PreconditionFailed(sentinel error, format string, args ...interface{}) *LedgerError {
	return New(KindPreconditionFailed, sentinel, fmt.Sprintf(format, args...))
}

func Duplicate(format string, args ...interface{}) *LedgerError {
	return New(KindDuplicate, ErrDuplicateReference, fmt.Sprintf(format, args...))
}

func Internal(format string, args ...interface{}) *LedgerError {
	return New(KindInternal, nil, fmt.Sprintf(format, args...))
}

// Is reports whether err carries the given sentinel as its wrapped cause.
func Is(err error, sentinel error) bool {
	return errors.Is(err, sentinel)
}
