// Package metrics exposes the Prometheus collectors for the HTTP layer and
// for ledger business operations. Grounded on the teacher's
// src/metrics/prometheus.go; trimmed of its CPU-core/throttling/GC gauges,
// which approximated OS-level CPU behavior from goroutine counts (a ratio
// like "goroutines per core" says nothing about actual scheduler pressure)
// and had no SPEC_FULL.md consumer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

var (
	AccountsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_accounts_created_total",
			Help: "Total number of accounts created",
		},
	)

	// LedgerOperationsTotal covers every mutating ledger operation:
	// operation is one of create_account, deposit, withdraw, transfer,
	// freeze_account, close_account; status is success or error.
	LedgerOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Total number of ledger operations by type and outcome",
		},
		[]string{"operation", "status"},
	)

	TransactionAmountHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ledger_transaction_amount",
			Help:    "Distribution of transaction amounts (major currency unit)",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
	)

	AccountBalanceHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ledger_account_balance",
			Help:    "Distribution of account balances after a mutation (major currency unit)",
			Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000, 10000, 50000, 100000},
		},
	)

	ActiveAccountsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_accounts_active_total",
			Help: "Current number of active accounts",
		},
	)

	IntegrityViolationsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_integrity_violations",
			Help: "Count of unbalanced transactions found by the last integrity check",
		},
	)
)

// RecordAccountCreation records a new account creation.
func RecordAccountCreation() {
	AccountsCreatedTotal.Inc()
}

// RecordOperation records the outcome of a ledger operation.
func RecordOperation(operation, status string) {
	LedgerOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordTransactionAmount records a transaction's amount as a float64 in the
// currency's major unit, for histogram purposes only; the authoritative
// value stored and returned to callers always stays a money.Amount.
func RecordTransactionAmount(amount float64) {
	TransactionAmountHistogram.Observe(amount)
}

// RecordAccountBalance records an account balance after a mutation.
func RecordAccountBalance(balance float64) {
	AccountBalanceHistogram.Observe(balance)
}

// UpdateActiveAccounts sets the current active account count.
func UpdateActiveAccounts(count float64) {
	ActiveAccountsGauge.Set(count)
}

// UpdateIntegrityViolations sets the violation count from the last
// LedgerIntegrityCheck run.
func UpdateIntegrityViolations(count float64) {
	IntegrityViolationsGauge.Set(count)
}
