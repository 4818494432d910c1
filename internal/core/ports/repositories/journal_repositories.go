package repositories

import (
	"context"
	"time"

	"github.com/danukusuma/akunting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalEntryReader defines read operations for posted journal entries
type JournalEntryReader interface {
	// FindEntryByID retrieves a journal entry with its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntriesByTransactionID retrieves all entries recorded for a
	// transaction (the original posting and, after a void, its reversal).
	FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.JournalEntry, error)
}

// JournalEntryWriter defines the two atomic units of the posting engine.
// Each method runs as a single database transaction: the JE code is allocated
// under a row lock on the yearly sequence, the entry and lines are inserted,
// the transaction status flips, and the audit event is appended. Either
// everything commits or nothing does.
type JournalEntryWriter interface {
	// PostEntry writes the entry and moves the transaction DRAFT -> POSTED.
	// It fails with ErrConflict if the transaction row is no longer a draft.
	PostEntry(ctx context.Context, txn domain.Transaction, entry domain.JournalEntry, audit domain.AuditEvent) (*domain.JournalEntry, error)

	// VoidWithReversal writes the reversing entry and moves the transaction
	// POSTED -> VOID. It fails with ErrConflict if the row is no longer posted.
	VoidWithReversal(ctx context.Context, txn domain.Transaction, reversal domain.JournalEntry, audit domain.AuditEvent) (*domain.JournalEntry, error)
}

// LedgerReader defines read operations over the append-only ledger index.
// All reads are plain snapshot reads; they never block writers.
type LedgerReader interface {
	// ListMovementsByAccount retrieves an account's journal lines joined with
	// their entry headers, ordered by (entry date, entry code). Nil bounds
	// mean unbounded.
	ListMovementsByAccount(ctx context.Context, accountID string, from *time.Time, to *time.Time) ([]domain.LedgerMovement, error)

	// SumsByAccount returns the account's debit and credit totals up to and
	// including asOf.
	SumsByAccount(ctx context.Context, accountID string, asOf time.Time) (debit decimal.Decimal, credit decimal.Decimal, err error)

	// SumsByAccountBefore returns the account's debit and credit totals for
	// entries dated strictly before the given date. Used for statement
	// opening balances.
	SumsByAccountBefore(ctx context.Context, accountID string, before time.Time) (debit decimal.Decimal, credit decimal.Decimal, err error)

	// TrialBalanceRows aggregates every account's activity up to asOf,
	// ordered by account code.
	TrialBalanceRows(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)
}

// JournalRepositoryFacade combines the posting engine's storage interfaces
type JournalRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
	LedgerReader
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
