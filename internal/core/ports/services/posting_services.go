package services

import (
	"context"

	"github.com/danukusuma/akunting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostingSvc is the journal posting engine: it turns a transaction plus its
// template into a balanced journal entry and writes it atomically, or builds
// the reversing entry for a void. It is deliberately unaware of lifecycle
// policy; the transaction service decides when these operations are legal.
type PostingSvc interface {
	// BuildLines evaluates every template line at the given amount and
	// returns candidate journal lines. Fails with ErrNegativeLineAmount if a
	// formula evaluates below zero and ErrUnbalancedPosting if the debit and
	// credit sums differ.
	BuildLines(template *domain.Template, amount decimal.Decimal) ([]domain.JournalLine, error)

	// Post writes the journal entry for a draft transaction and flips it to
	// POSTED in one atomic unit.
	Post(ctx context.Context, txn *domain.Transaction, template *domain.Template, actor string) (*domain.JournalEntry, error)

	// Reverse writes the reversing entry for a posted transaction and flips
	// it to VOID in one atomic unit. The original entry is never touched.
	Reverse(ctx context.Context, txn *domain.Transaction, reason string, actor string) (*domain.JournalEntry, error)
}
