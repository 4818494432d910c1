package domain_test

import (
	"testing"

	"github.com/danukusuma/akunting_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_CanPost(t *testing.T) {
	tests := []struct {
		name   string
		status domain.TransactionStatus
		want   bool
	}{
		{name: "draft can post", status: domain.StatusDraft, want: true},
		{name: "posted cannot post again", status: domain.StatusPosted, want: false},
		{name: "void cannot post", status: domain.StatusVoid, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := domain.Transaction{Status: tt.status}
			assert.Equal(t, tt.want, txn.CanPost())
		})
	}
}

func TestTransaction_CanVoid(t *testing.T) {
	tests := []struct {
		name   string
		status domain.TransactionStatus
		want   bool
	}{
		{name: "draft can be voided", status: domain.StatusDraft, want: true},
		{name: "posted can be voided", status: domain.StatusPosted, want: true},
		{name: "void is final", status: domain.StatusVoid, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := domain.Transaction{Status: tt.status}
			assert.Equal(t, tt.want, txn.CanVoid())
		})
	}
}

func TestTransaction_IsTerminal(t *testing.T) {
	draft := domain.Transaction{Status: domain.StatusDraft}
	posted := domain.Transaction{Status: domain.StatusPosted}
	voided := domain.Transaction{Status: domain.StatusVoid}

	assert.False(t, draft.IsTerminal())
	assert.False(t, posted.IsTerminal())
	assert.True(t, voided.IsTerminal())
}

func TestJournalEntry_IsBalanced(t *testing.T) {
	entry := domain.JournalEntry{
		Lines: []domain.JournalLine{
			{Side: domain.Debit, Amount: decimal.NewFromInt(111)},
			{Side: domain.Credit, Amount: decimal.NewFromInt(100)},
			{Side: domain.Credit, Amount: decimal.NewFromInt(11)},
		},
	}

	assert.True(t, entry.DebitTotal().Equal(decimal.NewFromInt(111)))
	assert.True(t, entry.CreditTotal().Equal(decimal.NewFromInt(111)))
	assert.True(t, entry.IsBalanced())

	entry.Lines[2].Amount = decimal.NewFromInt(10)
	assert.False(t, entry.IsBalanced())
}

func TestEntrySide_Opposite(t *testing.T) {
	assert.Equal(t, domain.Credit, domain.Debit.Opposite())
	assert.Equal(t, domain.Debit, domain.Credit.Opposite())
}

func TestNormalBalanceFor(t *testing.T) {
	tests := []struct {
		accountType domain.AccountType
		want        domain.EntrySide
	}{
		{domain.Asset, domain.Debit},
		{domain.Expense, domain.Debit},
		{domain.Liability, domain.Credit},
		{domain.Equity, domain.Credit},
		{domain.Revenue, domain.Credit},
	}

	for _, tt := range tests {
		got, err := domain.NormalBalanceFor(tt.accountType)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := domain.NormalBalanceFor(domain.AccountType("BOGUS"))
	assert.Error(t, err)
}
