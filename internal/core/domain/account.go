package domain

import "fmt"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// EntrySide indicates whether a journal line is a Debit or a Credit.
// It doubles as the normal balance side of an account.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// Opposite returns the reversing side for a journal line.
func (s EntrySide) Opposite() EntrySide {
	if s == Debit {
		return Credit
	}
	return Debit
}

// NormalBalanceFor returns the side on which an account's balance naturally
// increases. Asset and Expense accounts grow on the debit side; Liability,
// Equity and Revenue accounts grow on the credit side.
func NormalBalanceFor(accountType AccountType) (EntrySide, error) {
	switch accountType {
	case Asset, Expense:
		return Debit, nil
	case Liability, Equity, Revenue:
		return Credit, nil
	default:
		return "", fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// Account represents an entry in the chart of accounts.
// This is the primary representation used by services.
type Account struct {
	AccountID       string      `json:"accountID"`       // Primary Key (UUID)
	Code            string      `json:"code"`            // Hierarchical, dot-separated (e.g. "1.1.01"), unique
	Name            string      `json:"name"`            // User-defined name
	AccountType     AccountType `json:"accountType"`     // ASSET, LIABILITY, etc.
	NormalBalance   EntrySide   `json:"normalBalance"`   // Determined by AccountType
	ParentAccountID string      `json:"parentAccountID"` // Nullable, self-referencing lookup key (never an ownership pointer)
	Description     string      `json:"description"`     // Nullable user description
	IsActive        bool        `json:"isActive"`        // Soft flag; accounts referenced by journal lines are never removed
	AuditFields
}
