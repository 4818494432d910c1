package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine is a single debit or credit movement against one account.
// Amounts are always positive; the side carries the direction.
type JournalLine struct {
	LineID    string          `json:"lineID"`    // Primary Key (UUID)
	EntryID   string          `json:"entryID"`   // FK -> JournalEntry.EntryID
	AccountID string          `json:"accountID"` // FK -> Account.AccountID
	Side      EntrySide       `json:"side"`      // DEBIT or CREDIT
	Amount    decimal.Decimal `json:"amount"`    // Positive magnitude
	LineOrder int             `json:"lineOrder"` // 1-based position within the entry
}

// JournalEntry is an immutable, balanced set of journal lines posted to the
// ledger. A void never edits an entry; it appends a reversing one.
type JournalEntry struct {
	EntryID         string          `json:"entryID"`         // Primary Key (UUID)
	Code            string          `json:"code"`            // e.g. "JE-2025-0001", sequence-allocated per year
	TransactionID   string          `json:"transactionID"`   // Back-reference for lookup only
	EntryDate       time.Time       `json:"entryDate"`       // Mirrors the transaction date
	Description     string          `json:"description"`     // Mirrors the transaction description
	IsReversal      bool            `json:"isReversal"`      // True for entries produced by a void
	ReversedEntryID *string         `json:"reversedEntryID"` // Entry this one reverses, nil otherwise
	Lines           []JournalLine   `json:"lines"`           // Ordered by LineOrder
	AuditFields
}

// DebitTotal sums the debit side of the entry.
func (e *JournalEntry) DebitTotal() decimal.Decimal {
	return e.sideTotal(Debit)
}

// CreditTotal sums the credit side of the entry.
func (e *JournalEntry) CreditTotal() decimal.Decimal {
	return e.sideTotal(Credit)
}

// IsBalanced reports whether debits equal credits exactly.
func (e *JournalEntry) IsBalanced() bool {
	return e.DebitTotal().Equal(e.CreditTotal())
}

func (e *JournalEntry) sideTotal(side EntrySide) decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		if line.Side == side {
			total = total.Add(line.Amount)
		}
	}
	return total
}
