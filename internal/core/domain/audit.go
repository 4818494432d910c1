package domain

import "time"

// AuditEvent records one successful lifecycle transition of a transaction.
// Events are append-only: never mutated, never deleted. Failed attempts are
// not recorded here.
type AuditEvent struct {
	AuditEventID  string            `json:"auditEventID"`  // Primary Key (UUID)
	TransactionID string            `json:"transactionID"` // FK -> Transaction.TransactionID
	FromStatus    TransactionStatus `json:"fromStatus"`    // Empty on creation events
	ToStatus      TransactionStatus `json:"toStatus"`
	Actor         string            `json:"actor"`
	Reason        string            `json:"reason"` // Populated for voids
	OccurredAt    time.Time         `json:"occurredAt"`
}
