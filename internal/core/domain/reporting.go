package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerMovement is one journal line joined with its entry header, as read
// back from the ledger in (entry date, entry code) order. It is derived data,
// rebuildable from journal entry history.
type LedgerMovement struct {
	EntryID     string          `json:"entryID"`
	JournalCode string          `json:"journalCode"`
	EntryDate   time.Time       `json:"entryDate"`
	Description string          `json:"description"`
	AccountID   string          `json:"accountID"`
	Side        EntrySide       `json:"side"`
	Amount      decimal.Decimal `json:"amount"`
	IsReversal  bool            `json:"isReversal"`
}

// StatementLine is one row of an account statement with the running balance
// after the movement.
type StatementLine struct {
	Date        time.Time       `json:"date"`
	JournalCode string          `json:"journalCode"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceRow aggregates one account's ledger activity up to a date.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
	Balance     decimal.Decimal `json:"balance"` // Normal-balance signed
}
