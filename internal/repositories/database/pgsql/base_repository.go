package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, sql.ErrTxDone) && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// NextSequence allocates the next number from the (kind, year) counter inside
// tx. The upsert takes a row lock, so concurrent allocations for the same
// counter serialize and the numbers come out gapless as long as the enclosing
// transaction commits.
func (r *BaseRepository) NextSequence(ctx context.Context, tx pgx.Tx, kind string, year int) (int64, error) {
	query := `
		INSERT INTO code_sequences (kind, year, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (kind, year) DO UPDATE SET last_number = code_sequences.last_number + 1
		RETURNING last_number;
	`
	var seq int64
	if err := tx.QueryRow(ctx, query, kind, year).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to allocate %s sequence for year %d: %w", kind, year, err)
	}
	return seq, nil
}
