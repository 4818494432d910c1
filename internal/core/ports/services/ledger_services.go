package services

import (
	"context"
	"time"

	"github.com/danukusuma/akunting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade reads the append-only ledger. All operations are safe for
// unbounded concurrent readers; reversing entries from voided transactions
// appear as ordinary movements, never as erasures.
type LedgerSvcFacade interface {
	// RunningBalance computes the account's normal-balance-signed cumulative
	// total up to and including asOf.
	RunningBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)

	// Statement returns the account's movements within the range with a
	// running balance per row, carrying the opening balance in.
	Statement(ctx context.Context, accountID string, from time.Time, to time.Time) (decimal.Decimal, []domain.StatementLine, error)

	// TrialBalance aggregates every account's activity up to asOf.
	TrialBalance(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)
}
