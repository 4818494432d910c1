package repositories

import (
	"context"

	"github.com/danukusuma/akunting_app/internal/core/domain"
)

// AuditReader defines read operations over the append-only audit trail.
// Events are only ever written inside the lifecycle transition transactions,
// so there is no standalone writer interface.
type AuditReader interface {
	// ListAuditEventsByTransaction retrieves a transaction's audit events in
	// occurrence order.
	ListAuditEventsByTransaction(ctx context.Context, transactionID string) ([]domain.AuditEvent, error)
}
