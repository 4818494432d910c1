package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danukusuma/akunting_app/internal/apperrors"
	"github.com/danukusuma/akunting_app/internal/core/domain"
	portsrepo "github.com/danukusuma/akunting_app/internal/core/ports/repositories"
	"github.com/danukusuma/akunting_app/internal/utils/numbering"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, code, template_id, transaction_date, amount, source_account_id, description, reference_number, status, posted_at, posted_by, voided_at, voided_by, void_reason, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	var postedAt, voidedAt sql.NullTime
	var postedBy, voidedBy, voidReason, referenceNumber sql.NullString
	err := row.Scan(
		&txn.TransactionID,
		&txn.Code,
		&txn.TemplateID,
		&txn.Date,
		&txn.Amount,
		&txn.SourceAccountID,
		&txn.Description,
		&referenceNumber,
		&txn.Status,
		&postedAt,
		&postedBy,
		&voidedAt,
		&voidedBy,
		&voidReason,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.LastUpdatedAt,
		&txn.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	txn.ReferenceNumber = referenceNumber.String
	if postedAt.Valid {
		txn.PostedAt = &postedAt.Time
	}
	txn.PostedBy = postedBy.String
	if voidedAt.Valid {
		txn.VoidedAt = &voidedAt.Time
	}
	txn.VoidedBy = voidedBy.String
	txn.VoidReason = voidReason.String
	return &txn, nil
}

// SaveDraft inserts the draft, its creation audit event, and the TRX code
// allocation in one database transaction.
func (r *PgxTransactionRepository) SaveDraft(ctx context.Context, txn domain.Transaction, audit domain.AuditEvent) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	seq, err := r.NextSequence(ctx, tx, numbering.KindTransaction, txn.Date.Year())
	if err != nil {
		return nil, err
	}
	txn.Code = numbering.TransactionCode(txn.Date.Year(), seq)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	var referenceNumber sql.NullString
	if txn.ReferenceNumber != "" {
		referenceNumber = sql.NullString{String: txn.ReferenceNumber, Valid: true}
	}
	_, err = tx.Exec(ctx, query,
		txn.TransactionID,
		txn.Code,
		txn.TemplateID,
		txn.Date,
		txn.Amount,
		txn.SourceAccountID,
		txn.Description,
		referenceNumber,
		txn.Status,
		nil, nil, nil, nil, nil,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}

	if err := insertAuditEvent(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &txn, nil
}

// VoidDraft flips a draft straight to VOID with its audit event. The status
// guard in the WHERE clause turns a concurrent transition into ErrConflict.
func (r *PgxTransactionRepository) VoidDraft(ctx context.Context, txn domain.Transaction, audit domain.AuditEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE transactions
		SET status = $2, voided_at = $3, voided_by = $4, void_reason = $5, last_updated_at = $6, last_updated_by = $7
		WHERE transaction_id = $1 AND status = 'DRAFT';
	`
	tag, err := tx.Exec(ctx, query,
		txn.TransactionID,
		txn.Status,
		txn.VoidedAt,
		txn.VoidedBy,
		txn.VoidReason,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to void draft %s: %w", txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s is no longer a draft", apperrors.ErrConflict, txn.TransactionID)
	}

	if err := insertAuditEvent(ctx, tx, audit); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

func (r *PgxTransactionRepository) FindTransactionByCode(ctx context.Context, code string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE code = $1;`

	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by code %s: %w", code, err)
	}
	return txn, nil
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, status *domain.TransactionStatus, limit int, offset int) ([]domain.Transaction, error) {
	var rows pgx.Rows
	var err error
	if status != nil {
		query := `SELECT ` + transactionColumns + ` FROM transactions WHERE status = $1 ORDER BY created_at DESC, code DESC LIMIT $2 OFFSET $3;`
		rows, err = r.Pool.Query(ctx, query, *status, limit, offset)
	} else {
		query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY created_at DESC, code DESC LIMIT $1 OFFSET $2;`
		rows, err = r.Pool.Query(ctx, query, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

// insertAuditEvent appends one audit event inside tx. Shared by every
// repository that commits a lifecycle transition.
func insertAuditEvent(ctx context.Context, tx pgx.Tx, audit domain.AuditEvent) error {
	query := `
		INSERT INTO audit_events (audit_event_id, transaction_id, from_status, to_status, actor, reason, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	var fromStatus, reason sql.NullString
	if audit.FromStatus != "" {
		fromStatus = sql.NullString{String: string(audit.FromStatus), Valid: true}
	}
	if audit.Reason != "" {
		reason = sql.NullString{String: audit.Reason, Valid: true}
	}
	_, err := tx.Exec(ctx, query,
		audit.AuditEventID,
		audit.TransactionID,
		fromStatus,
		audit.ToStatus,
		audit.Actor,
		reason,
		audit.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event for %s: %w", audit.TransactionID, err)
	}
	return nil
}
