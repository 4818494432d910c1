package accounting

import (
	"github.com/danukusuma/akunting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the account's normal balance to a journal line
// magnitude: a movement on the normal side increases the balance, the
// opposite side decreases it. Used by the ledger service and the statement
// running-balance calculation so both always agree.
func SignedAmount(side domain.EntrySide, amount decimal.Decimal, normalBalance domain.EntrySide) decimal.Decimal {
	if side == normalBalance {
		return amount
	}
	return amount.Neg()
}

// NetBalance nets a debit and credit total into a normal-balance-signed
// figure.
func NetBalance(debitTotal, creditTotal decimal.Decimal, normalBalance domain.EntrySide) decimal.Decimal {
	if normalBalance == domain.Debit {
		return debitTotal.Sub(creditTotal)
	}
	return creditTotal.Sub(debitTotal)
}
