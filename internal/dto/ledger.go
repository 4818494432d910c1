package dto

import (
	"time"

	"github.com/danukusuma/akunting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceResponse is the running balance of an account as of a date.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	AsOf      time.Time       `json:"asOf"`
	Balance   decimal.Decimal `json:"balance"`
}

// StatementLineResponse is one statement row.
type StatementLineResponse struct {
	Date        time.Time       `json:"date"`
	JournalCode string          `json:"journalCode"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// StatementResponse is an account statement over a date range.
type StatementResponse struct {
	AccountID      string                  `json:"accountID"`
	From           time.Time               `json:"from"`
	To             time.Time               `json:"to"`
	OpeningBalance decimal.Decimal         `json:"openingBalance"`
	Lines          []StatementLineResponse `json:"lines"`
}

// ToStatementLineResponses converts domain statement lines.
func ToStatementLineResponses(lines []domain.StatementLine) []StatementLineResponse {
	responses := make([]StatementLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = StatementLineResponse{
			Date:        line.Date,
			JournalCode: line.JournalCode,
			Description: line.Description,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Balance:     line.Balance,
		}
	}
	return responses
}

// TrialBalanceRowResponse is one aggregated trial balance row.
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceResponse is the engine-level trial balance data; layout is the
// presentation layer's concern.
type TrialBalanceResponse struct {
	AsOf time.Time                 `json:"asOf"`
	Rows []TrialBalanceRowResponse `json:"rows"`
}

// ToTrialBalanceRowResponses converts domain trial balance rows.
func ToTrialBalanceRowResponses(rows []domain.TrialBalanceRow) []TrialBalanceRowResponse {
	responses := make([]TrialBalanceRowResponse, len(rows))
	for i, row := range rows {
		responses[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			DebitTotal:  row.DebitTotal,
			CreditTotal: row.CreditTotal,
			Balance:     row.Balance,
		}
	}
	return responses
}
