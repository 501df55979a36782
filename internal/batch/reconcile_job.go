package batch

import (
	"console-bank/internal/domain/ledger"
	"console-bank/internal/infrastructure/monitoring"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

const (
	statusOK       = "ok"
	statusMismatch = "mismatch"
	statusAborted  = "aborted"
)

// ReconciliationJob recomputes every balance from its statement and reports
// accounts that disagree. Both come from one ledger snapshot, so postings made
// while the job runs cannot produce false mismatches. It never mutates the ledger.
type ReconciliationJob struct {
	ledgerService ledger.LedgerService
	logger        *slog.Logger
}

func NewReconciliationJob(ledgerSvc ledger.LedgerService, logger *slog.Logger) *ReconciliationJob {
	if ledgerSvc == nil || logger == nil {
		panic("ReconciliationJob dependencies cannot be nil")
	}
	return &ReconciliationJob{
		ledgerService: ledgerSvc,
		logger:        logger.With("job", "Reconciliation"),
	}
}

func (j *ReconciliationJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting ledger reconciliation job.")

	accounts, statements := j.ledgerService.Snapshot(ctx)
	j.logger.DebugContext(ctx, "Fetched ledger snapshot.", slog.Int("count", len(accounts)))

	mismatches := 0
	for _, acc := range accounts {
		if err := ctx.Err(); err != nil {
			j.logger.WarnContext(ctx, "Reconciliation aborted before all accounts were checked.", slog.Any("error", err))
			monitoring.RecordReconciliation(statusAborted, mismatches)
			return fmt.Errorf("reconciliation aborted: %w", err)
		}

		logCtx := j.logger.With(slog.String("accountNumber", acc.AccountNumber))
		expected := decimal.Zero
		for _, tx := range statements[acc.AccountNumber] {
			expected = expected.Add(tx.SignedAmount())
		}

		if acc.Balance.IsNegative() {
			logCtx.ErrorContext(ctx, "Account balance is negative.", slog.String("balance", acc.Balance.StringFixed(2)))
			mismatches++
			continue
		}
		if !expected.Equal(acc.Balance) {
			logCtx.ErrorContext(ctx, "Account balance does not match its statement.",
				slog.String("balance", acc.Balance.StringFixed(2)),
				slog.String("statementTotal", expected.StringFixed(2)))
			mismatches++
			continue
		}
		logCtx.DebugContext(ctx, "Account balance reconciled.")
	}

	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("accounts_checked", len(accounts)),
		slog.Int("mismatches", mismatches),
	)
	if mismatches > 0 {
		summaryLog.WarnContext(ctx, "Ledger reconciliation job finished with mismatches.")
		monitoring.RecordReconciliation(statusMismatch, mismatches)
		return fmt.Errorf("reconciliation found %d mismatched accounts", mismatches)
	}

	summaryLog.InfoContext(ctx, "Ledger reconciliation job finished successfully.")
	monitoring.RecordReconciliation(statusOK, 0)
	return nil
}
