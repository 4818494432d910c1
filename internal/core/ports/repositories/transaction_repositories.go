package repositories

import (
	"context"

	"github.com/danukusuma/akunting_app/internal/core/domain"
)

// TransactionReader defines read operations for transactions
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionByCode retrieves a transaction by its TRX code.
	FindTransactionByCode(ctx context.Context, code string) (*domain.Transaction, error)

	// ListTransactions retrieves a paginated list, optionally filtered by
	// status, newest first.
	ListTransactions(ctx context.Context, status *domain.TransactionStatus, limit int, offset int) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transactions. Lifecycle
// transitions always travel with their audit event in one database
// transaction, so a transition is never visible without its audit trail.
type TransactionWriter interface {
	// SaveDraft persists a new draft, allocating its TRX code from the
	// yearly sequence in the same transaction. The stored transaction (with
	// code assigned) is returned.
	SaveDraft(ctx context.Context, txn domain.Transaction, audit domain.AuditEvent) (*domain.Transaction, error)

	// VoidDraft transitions a DRAFT transaction directly to VOID without any
	// journal entry. It fails with ErrConflict if the row is no longer a draft.
	VoidDraft(ctx context.Context, txn domain.Transaction, audit domain.AuditEvent) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
