package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danukusuma/akunting_app/internal/apperrors"
	"github.com/danukusuma/akunting_app/internal/core/domain"
	portsrepo "github.com/danukusuma/akunting_app/internal/core/ports/repositories"
	"github.com/danukusuma/akunting_app/internal/utils/accounting"
	"github.com/danukusuma/akunting_app/internal/utils/numbering"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and
// the ledger reads built over them.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, code, transaction_id, entry_date, description, is_reversal, reversed_entry_id, created_at, created_by, last_updated_at, last_updated_by`

// PostEntry writes the journal entry, flips the transaction to POSTED, and
// appends the audit event in one database transaction. The JE code comes
// from the yearly sequence under the same row lock, so committed codes are
// gapless and in posting order.
func (r *PgxJournalRepository) PostEntry(ctx context.Context, txn domain.Transaction, entry domain.JournalEntry, audit domain.AuditEvent) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	updateQuery := `
		UPDATE transactions
		SET status = $2, posted_at = $3, posted_by = $4, last_updated_at = $5, last_updated_by = $6
		WHERE transaction_id = $1 AND status = 'DRAFT';
	`
	tag, err := tx.Exec(ctx, updateQuery,
		txn.TransactionID,
		txn.Status,
		txn.PostedAt,
		txn.PostedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to mark transaction %s posted: %w", txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: transaction %s is no longer a draft", apperrors.ErrConflict, txn.TransactionID)
	}

	saved, err := r.insertEntryInTx(ctx, tx, entry)
	if err != nil {
		return nil, err
	}
	if err := insertAuditEvent(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return saved, nil
}

// VoidWithReversal writes the reversing entry, flips the transaction to
// VOID, and appends the audit event atomically. The original entry row is
// never updated.
func (r *PgxJournalRepository) VoidWithReversal(ctx context.Context, txn domain.Transaction, reversal domain.JournalEntry, audit domain.AuditEvent) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	updateQuery := `
		UPDATE transactions
		SET status = $2, voided_at = $3, voided_by = $4, void_reason = $5, last_updated_at = $6, last_updated_by = $7
		WHERE transaction_id = $1 AND status = 'POSTED';
	`
	tag, err := tx.Exec(ctx, updateQuery,
		txn.TransactionID,
		txn.Status,
		txn.VoidedAt,
		txn.VoidedBy,
		txn.VoidReason,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to mark transaction %s void: %w", txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: transaction %s is no longer posted", apperrors.ErrConflict, txn.TransactionID)
	}

	saved, err := r.insertEntryInTx(ctx, tx, reversal)
	if err != nil {
		return nil, err
	}
	if err := insertAuditEvent(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *PgxJournalRepository) insertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	seq, err := r.NextSequence(ctx, tx, numbering.KindJournal, entry.EntryDate.Year())
	if err != nil {
		return nil, err
	}
	entry.Code = numbering.JournalCode(entry.EntryDate.Year(), seq)

	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	var reversedEntryID sql.NullString
	if entry.ReversedEntryID != nil {
		reversedEntryID = sql.NullString{String: *entry.ReversedEntryID, Valid: true}
	}
	_, err = tx.Exec(ctx, query,
		entry.EntryID,
		entry.Code,
		entry.TransactionID,
		entry.EntryDate,
		entry.Description,
		entry.IsReversal,
		reversedEntryID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert journal entry %s: %w", entry.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, account_id, side, amount, line_order)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, line := range entry.Lines {
		batch.Queue(lineQuery,
			line.LineID,
			entry.EntryID,
			line.AccountID,
			line.Side,
			line.Amount,
			line.LineOrder,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range entry.Lines {
		if _, err := results.Exec(); err != nil {
			return nil, fmt.Errorf("failed to insert journal line for %s: %w", entry.EntryID, err)
		}
	}
	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush journal line batch for %s: %w", entry.EntryID, err)
	}

	return &entry, nil
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	lines, err := r.findLinesByEntryIDs(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entryID]
	return entry, nil
}

func (r *PgxJournalRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE transaction_id = $1 ORDER BY code;`

	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}
	if len(entries) == 0 {
		return entries, nil
	}

	entryIDs := make([]string, len(entries))
	for i, e := range entries {
		entryIDs[i] = e.EntryID
	}
	linesByEntry, err := r.findLinesByEntryIDs(ctx, entryIDs)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Lines = linesByEntry[entries[i].EntryID]
	}
	return entries, nil
}

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	var reversedEntryID sql.NullString
	err := row.Scan(
		&entry.EntryID,
		&entry.Code,
		&entry.TransactionID,
		&entry.EntryDate,
		&entry.Description,
		&entry.IsReversal,
		&reversedEntryID,
		&entry.CreatedAt,
		&entry.CreatedBy,
		&entry.LastUpdatedAt,
		&entry.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if reversedEntryID.Valid {
		entry.ReversedEntryID = &reversedEntryID.String
	}
	return &entry, nil
}

func (r *PgxJournalRepository) findLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, side, amount, line_order
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_order;
	`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	defer rows.Close()

	linesByEntry := make(map[string][]domain.JournalLine)
	for rows.Next() {
		var line domain.JournalLine
		err := rows.Scan(
			&line.LineID,
			&line.EntryID,
			&line.AccountID,
			&line.Side,
			&line.Amount,
			&line.LineOrder,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		linesByEntry[line.EntryID] = append(linesByEntry[line.EntryID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal line rows: %w", err)
	}
	return linesByEntry, nil
}

func (r *PgxJournalRepository) ListMovementsByAccount(ctx context.Context, accountID string, from *time.Time, to *time.Time) ([]domain.LedgerMovement, error) {
	query := `
		SELECT e.entry_id, e.code, e.entry_date, e.description, l.account_id, l.side, l.amount, e.is_reversal
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1
		  AND ($2::timestamptz IS NULL OR e.entry_date >= $2)
		  AND ($3::timestamptz IS NULL OR e.entry_date <= $3)
		ORDER BY e.entry_date, e.code, l.line_order;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements for account %s: %w", accountID, err)
	}
	defer rows.Close()

	movements := make([]domain.LedgerMovement, 0)
	for rows.Next() {
		var m domain.LedgerMovement
		err := rows.Scan(
			&m.EntryID,
			&m.JournalCode,
			&m.EntryDate,
			&m.Description,
			&m.AccountID,
			&m.Side,
			&m.Amount,
			&m.IsReversal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movement rows: %w", err)
	}
	return movements, nil
}

func (r *PgxJournalRepository) SumsByAccount(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	return r.sumSides(ctx, accountID, `e.entry_date <= $2`, asOf)
}

func (r *PgxJournalRepository) SumsByAccountBefore(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	return r.sumSides(ctx, accountID, `e.entry_date < $2`, before)
}

func (r *PgxJournalRepository) sumSides(ctx context.Context, accountID string, dateCond string, bound time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'DEBIT'), 0),
			COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'CREDIT'), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND ` + dateCond + `;
	`
	var debitTotal, creditTotal decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, bound).Scan(&debitTotal, &creditTotal); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum movements for account %s: %w", accountID, err)
	}
	return debitTotal, creditTotal, nil
}

// TrialBalanceRows aggregates per-account debit and credit totals up to asOf
// and nets each into a normal-balance-signed figure. Accounts with no
// activity are included at zero so the report covers the whole chart.
func (r *PgxJournalRepository) TrialBalanceRows(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			a.normal_balance,
			COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'DEBIT'), 0),
			COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'CREDIT'), 0)
		FROM accounts a
		LEFT JOIN (
			SELECT jl.account_id, jl.side, jl.amount
			FROM journal_lines jl
			JOIN journal_entries je ON je.entry_id = jl.entry_id
			WHERE je.entry_date <= $1
		) l ON l.account_id = a.account_id
		GROUP BY a.account_id, a.code, a.name, a.normal_balance
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate trial balance: %w", err)
	}
	defer rows.Close()

	result := make([]domain.TrialBalanceRow, 0)
	for rows.Next() {
		var row domain.TrialBalanceRow
		var normalBalance domain.EntrySide
		err := rows.Scan(
			&row.AccountID,
			&row.AccountCode,
			&row.AccountName,
			&normalBalance,
			&row.DebitTotal,
			&row.CreditTotal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		row.Balance = accounting.NetBalance(row.DebitTotal, row.CreditTotal, normalBalance)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return result, nil
}
