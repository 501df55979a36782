package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

type LedgerMetrics struct {
	AccountsOpenedTotal    *prometheus.CounterVec
	TransactionsTotal      *prometheus.CounterVec
	TransactionAmountTotal *prometheus.CounterVec
	OperationFailuresTotal *prometheus.CounterVec
}

type ReconciliationMetrics struct {
	RunsTotal  *prometheus.CounterVec
	Mismatches prometheus.Gauge
}

var (
	Ledger = LedgerMetrics{
		AccountsOpenedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_accounts_opened_total",
				Help: "Total number of accounts opened.",
			},
			[]string{"account_type"},
		),
		TransactionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transactions_total",
				Help: "Total number of transaction records appended.",
			},
			[]string{"type"},
		),
		TransactionAmountTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transaction_amount_total",
				Help: "Sum of transaction amounts by transaction type.",
			},
			[]string{"type"},
		),
		OperationFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operation_failures_total",
				Help: "Total number of rejected ledger operations.",
			},
			[]string{"operation", "reason"},
		),
	}

	Reconciliation = ReconciliationMetrics{
		RunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_reconciliation_runs_total",
				Help: "Total number of reconciliation runs by outcome.",
			},
			[]string{"status"},
		),
		Mismatches: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledger_reconciliation_mismatches",
				Help: "Accounts whose balance disagreed with their statement in the last run.",
			},
		),
	}
)

func RecordAccountOpened(accountType string) {
	Ledger.AccountsOpenedTotal.WithLabelValues(accountType).Inc()
}

func RecordTransaction(txType string, amount decimal.Decimal) {
	Ledger.TransactionsTotal.WithLabelValues(txType).Inc()
	Ledger.TransactionAmountTotal.WithLabelValues(txType).Add(amount.InexactFloat64())
}

func RecordOperationFailure(operation, reason string) {
	Ledger.OperationFailuresTotal.WithLabelValues(operation, reason).Inc()
}

func RecordReconciliation(status string, mismatches int) {
	Reconciliation.RunsTotal.WithLabelValues(status).Inc()
	Reconciliation.Mismatches.Set(float64(mismatches))
}
