package formula_test

import (
	"math/rand"
	"testing"

	"github.com/danukusuma/akunting_app/internal/core/formula"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	amount := decimal.RequireFromString("111")

	tests := []struct {
		name    string
		expr    string
		want    string
		wantErr error
	}{
		{name: "bare amount", expr: "amount", want: "111"},
		{name: "literal", expr: "42.5", want: "42.5"},
		{name: "addition", expr: "amount + 9", want: "120"},
		{name: "subtraction", expr: "amount - 11", want: "100"},
		{name: "multiplication", expr: "amount * 0.11", want: "12.21"},
		{name: "division", expr: "amount / 1.11", want: "100"},
		{name: "vat remainder", expr: "amount - amount/1.11", want: "11"},
		{name: "precedence multiply before add", expr: "2 + 3 * 4", want: "14"},
		{name: "precedence divide before subtract", expr: "10 - 6 / 2", want: "7"},
		{name: "parentheses override precedence", expr: "(2 + 3) * 4", want: "20"},
		{name: "nested parentheses", expr: "((amount))", want: "111"},
		{name: "unary minus", expr: "-amount + 211", want: "100"},
		{name: "whitespace tolerated", expr: "  amount\t* 0.5 ", want: "55.5"},
		{name: "small multiplier survives", expr: "amount * 0.005", want: "0.55"},
		{name: "truncation toward zero", expr: "amount / 7", want: "15.85"},
		{name: "division by zero literal", expr: "amount / 0", wantErr: formula.ErrDivisionByZero},
		{name: "division by zero expression", expr: "amount / (1 - 1)", wantErr: formula.ErrDivisionByZero},
		{name: "unknown identifier", expr: "total * 2", wantErr: formula.ErrUnboundVariable},
		{name: "unknown identifier after amount", expr: "amount + vat", wantErr: formula.ErrUnboundVariable},
		{name: "dangling operator", expr: "amount +", wantErr: formula.ErrInvalidFormula},
		{name: "missing close paren", expr: "(amount * 2", wantErr: formula.ErrInvalidFormula},
		{name: "trailing garbage", expr: "amount 5", wantErr: formula.ErrInvalidFormula},
		{name: "double dot number", expr: "1.2.3", wantErr: formula.ErrInvalidFormula},
		{name: "empty expression", expr: "", wantErr: formula.ErrInvalidFormula},
		{name: "stray character", expr: "amount % 2", wantErr: formula.ErrInvalidFormula},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formula.Evaluate(tt.expr, amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"Evaluate(%q) = %s, want %s", tt.expr, got, tt.want)
		})
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	// The same formula and amount must always produce the same result; the
	// engine relies on this when re-deriving amounts for reconciliation.
	amount := decimal.RequireFromString("12345.67")
	first, err := formula.Evaluate("amount / 1.11 + amount * 0.025", amount)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		again, err := formula.Evaluate("amount / 1.11 + amount * 0.025", amount)
		require.NoError(t, err)
		assert.True(t, first.Equal(again))
	}
}

func TestEvaluate_ScaleIsTwoDecimals(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 200; i++ {
		amount := decimal.NewFromInt(rng.Int63n(1_000_000)).Div(decimal.NewFromInt(100))
		got, err := formula.Evaluate("amount / 3", amount)
		require.NoError(t, err)
		assert.True(t, got.Exponent() >= -formula.Scale,
			"result %s has more than %d decimal places", got, formula.Scale)
	}
}

func TestEvaluateExact_ComplementaryFormulasBalance(t *testing.T) {
	// Untruncated results of a split and its remainder must always recombine
	// to the full amount, whatever the amount.
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		amount := decimal.NewFromInt(rng.Int63n(1_000_000)).Div(decimal.NewFromInt(100))

		base, err := formula.EvaluateExact("amount / 1.11", amount)
		require.NoError(t, err)
		rest, err := formula.EvaluateExact("amount - amount / 1.11", amount)
		require.NoError(t, err)

		assert.True(t, base.Add(rest).Equal(amount),
			"%s + %s != %s", base, rest, amount)
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, formula.Validate("amount * (1 - 0.1)"))
	assert.ErrorIs(t, formula.Validate("amount * rate"), formula.ErrUnboundVariable)
	assert.ErrorIs(t, formula.Validate("(amount"), formula.ErrInvalidFormula)
}
