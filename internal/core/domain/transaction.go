package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates where a transaction sits in its lifecycle.
// Transitions are monotonic: DRAFT -> POSTED -> VOID, or DRAFT -> VOID.
// VOID is terminal and nothing ever re-enters DRAFT.
type TransactionStatus string

const (
	StatusDraft  TransactionStatus = "DRAFT"
	StatusPosted TransactionStatus = "POSTED"
	StatusVoid   TransactionStatus = "VOID"
)

// Transaction is the business event that drives a posting. It references a
// template and carries the single input amount fed to the template formulas.
type Transaction struct {
	TransactionID   string            `json:"transactionID"`   // Primary Key (UUID)
	Code            string            `json:"code"`            // e.g. "TRX-2025-0001", sequence-allocated per year
	TemplateID      string            `json:"templateID"`      // FK -> Template.TemplateID
	Date            time.Time         `json:"date"`            // Date the event occurred
	Amount          decimal.Decimal   `json:"amount"`          // Single driving value, positive
	SourceAccountID string            `json:"sourceAccountID"` // Cash/bank account the event moves through
	Description     string            `json:"description"`     // Required user description
	ReferenceNumber string            `json:"referenceNumber"` // Nullable external reference
	Status          TransactionStatus `json:"status"`
	PostedAt        *time.Time        `json:"postedAt,omitempty"`
	PostedBy        string            `json:"postedBy,omitempty"`
	VoidedAt        *time.Time        `json:"voidedAt,omitempty"`
	VoidedBy        string            `json:"voidedBy,omitempty"`
	VoidReason      string            `json:"voidReason,omitempty"`
	AuditFields
}

// CanPost reports whether the transaction may move to POSTED.
func (t *Transaction) CanPost() bool {
	return t.Status == StatusDraft
}

// CanVoid reports whether the transaction may move to VOID. Both drafts
// (direct cancellation) and posted transactions (reversal) qualify.
func (t *Transaction) CanVoid() bool {
	switch t.Status {
	case StatusDraft, StatusPosted:
		return true
	case StatusVoid:
		return false
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are possible.
func (t *Transaction) IsTerminal() bool {
	return t.Status == StatusVoid
}
