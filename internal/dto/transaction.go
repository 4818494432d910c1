package dto

import (
	"time"

	"github.com/danukusuma/akunting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the payload for creating a draft
// transaction from a template.
type CreateTransactionRequest struct {
	TemplateID      string          `json:"templateID" binding:"required"`
	Date            time.Time       `json:"date" binding:"required" time_format:"2006-01-02"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	SourceAccountID string          `json:"sourceAccountID" binding:"required"`
	Description     string          `json:"description" binding:"required"`
	ReferenceNumber string          `json:"referenceNumber"`
}

// VoidTransactionRequest carries the mandatory void reason. The reason is
// validated by the service so an empty one surfaces as the domain error
// rather than a generic binding failure.
type VoidTransactionRequest struct {
	Reason string `json:"reason"`
}

// ListTransactionsParams holds query parameters for listing transactions.
type ListTransactionsParams struct {
	Status string `form:"status" binding:"omitempty,oneof=DRAFT POSTED VOID"`
	Limit  int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID   string          `json:"transactionID"`
	Code            string          `json:"code"`
	TemplateID      string          `json:"templateID"`
	Date            time.Time       `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	SourceAccountID string          `json:"sourceAccountID"`
	Description     string          `json:"description"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	Status          string          `json:"status"`
	PostedAt        *time.Time      `json:"postedAt,omitempty"`
	VoidedAt        *time.Time      `json:"voidedAt,omitempty"`
	VoidReason      string          `json:"voidReason,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   t.TransactionID,
		Code:            t.Code,
		TemplateID:      t.TemplateID,
		Date:            t.Date,
		Amount:          t.Amount,
		SourceAccountID: t.SourceAccountID,
		Description:     t.Description,
		ReferenceNumber: t.ReferenceNumber,
		Status:          string(t.Status),
		PostedAt:        t.PostedAt,
		VoidedAt:        t.VoidedAt,
		VoidReason:      t.VoidReason,
		CreatedAt:       t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	AccountID string          `json:"accountID"`
	Side      string          `json:"side"`
	Amount    decimal.Decimal `json:"amount"`
	LineOrder int             `json:"lineOrder"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID         string                `json:"entryID"`
	Code            string                `json:"code"`
	TransactionID   string                `json:"transactionID"`
	EntryDate       time.Time             `json:"entryDate"`
	Description     string                `json:"description"`
	IsReversal      bool                  `json:"isReversal"`
	ReversedEntryID *string               `json:"reversedEntryID,omitempty"`
	Lines           []JournalLineResponse `json:"lines"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, line := range e.Lines {
		lines[i] = JournalLineResponse{
			AccountID: line.AccountID,
			Side:      string(line.Side),
			Amount:    line.Amount,
			LineOrder: line.LineOrder,
		}
	}
	return JournalEntryResponse{
		EntryID:         e.EntryID,
		Code:            e.Code,
		TransactionID:   e.TransactionID,
		EntryDate:       e.EntryDate,
		Description:     e.Description,
		IsReversal:      e.IsReversal,
		ReversedEntryID: e.ReversedEntryID,
		Lines:           lines,
	}
}

// AuditEventResponse defines the data returned for one audit event.
type AuditEventResponse struct {
	AuditEventID  string    `json:"auditEventID"`
	TransactionID string    `json:"transactionID"`
	FromStatus    string    `json:"fromStatus,omitempty"`
	ToStatus      string    `json:"toStatus"`
	Actor         string    `json:"actor"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// ToAuditEventResponses converts a slice of domain.AuditEvent.
func ToAuditEventResponses(events []domain.AuditEvent) []AuditEventResponse {
	responses := make([]AuditEventResponse, len(events))
	for i, ev := range events {
		responses[i] = AuditEventResponse{
			AuditEventID:  ev.AuditEventID,
			TransactionID: ev.TransactionID,
			FromStatus:    string(ev.FromStatus),
			ToStatus:      string(ev.ToStatus),
			Actor:         ev.Actor,
			Reason:        ev.Reason,
			OccurredAt:    ev.OccurredAt,
		}
	}
	return responses
}
