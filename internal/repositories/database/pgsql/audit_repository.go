package pgsql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danukusuma/akunting_app/internal/core/domain"
	portsrepo "github.com/danukusuma/akunting_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates the read side of the audit trail. Events are
// inserted by the lifecycle repositories inside their transition
// transactions.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditReader {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAuditRepository implements portsrepo.AuditReader
var _ portsrepo.AuditReader = (*PgxAuditRepository)(nil)

func (r *PgxAuditRepository) ListAuditEventsByTransaction(ctx context.Context, transactionID string) ([]domain.AuditEvent, error) {
	query := `
		SELECT audit_event_id, transaction_id, from_status, to_status, actor, reason, occurred_at
		FROM audit_events
		WHERE transaction_id = $1
		ORDER BY occurred_at, audit_event_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	events := make([]domain.AuditEvent, 0)
	for rows.Next() {
		var ev domain.AuditEvent
		var fromStatus, reason sql.NullString
		err := rows.Scan(
			&ev.AuditEventID,
			&ev.TransactionID,
			&fromStatus,
			&ev.ToStatus,
			&ev.Actor,
			&reason,
			&ev.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit event row: %w", err)
		}
		ev.FromStatus = domain.TransactionStatus(fromStatus.String)
		ev.Reason = reason.String
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit event rows: %w", err)
	}
	return events, nil
}
