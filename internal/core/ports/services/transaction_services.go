package services

import (
	"context"

	"github.com/danukusuma/akunting_app/internal/core/domain"
	"github.com/danukusuma/akunting_app/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a specific transaction.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a paginated list, optionally filtered by status.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.Transaction, error)

	// ListAuditEvents retrieves a transaction's audit trail in occurrence order.
	ListAuditEvents(ctx context.Context, transactionID string) ([]domain.AuditEvent, error)

	// ListJournalEntries retrieves the journal entries recorded for a
	// transaction: none for drafts, one for posted, two after a void.
	ListJournalEntries(ctx context.Context, transactionID string) ([]domain.JournalEntry, error)

	// GetJournalEntry retrieves a single journal entry with its lines,
	// e.g. to follow a reversal's back-link to the entry it reverses.
	GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
}

// TransactionLifecycleSvc owns the DRAFT -> POSTED -> VOID state machine.
// Every successful transition is audited inside the same atomic unit.
type TransactionLifecycleSvc interface {
	// CreateDraft validates the template and source account and persists a
	// new draft with a freshly allocated TRX code.
	CreateDraft(ctx context.Context, req dto.CreateTransactionRequest, actor string) (*domain.Transaction, error)

	// PostTransaction moves a draft to POSTED, producing its journal entry.
	PostTransaction(ctx context.Context, transactionID string, actor string) (*domain.Transaction, *domain.JournalEntry, error)

	// VoidTransaction terminates a transaction. A posted transaction gets a
	// reversing journal entry; a draft is cancelled directly and the
	// returned entry is nil. Voiding a void fails with ErrInvalidTransition.
	VoidTransaction(ctx context.Context, transactionID string, reason string, actor string) (*domain.Transaction, *domain.JournalEntry, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionLifecycleSvc
}
