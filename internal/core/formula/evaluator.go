// Package formula evaluates the small arithmetic expressions used by journal
// template lines. The grammar is deliberately tiny: decimal literals, the
// single variable `amount`, the operators + - * / with standard precedence,
// and parentheses. Evaluation is pure and deterministic; the same expression
// and amount always yield the same fixed-point decimal result.
package formula

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	// ErrDivisionByZero is returned when a formula divides by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrUnboundVariable is returned when a formula references any identifier
	// other than `amount`.
	ErrUnboundVariable = errors.New("unbound variable")

	// ErrInvalidFormula is returned for syntax errors.
	ErrInvalidFormula = errors.New("invalid formula")
)

// Scale is the fixed-point scale of evaluated results.
const Scale = 2

// Evaluate parses and evaluates expr with the given binding for `amount`.
// The final magnitude is truncated toward zero to two decimal places;
// intermediate divisions run at shopspring's default precision. Truncation
// rather than rounding keeps re-derivation of historical amounts exact.
func Evaluate(expr string, amount decimal.Decimal) (decimal.Decimal, error) {
	value, err := EvaluateExact(expr, amount)
	if err != nil {
		return decimal.Zero, err
	}
	return value.Truncate(Scale), nil
}

// EvaluateExact evaluates expr without the final truncation. Complementary
// formulas like `amount / 1.11` and `amount - amount / 1.11` sum exactly at
// full precision but can drift a cent apart once truncated per line, so
// structural balance checks use this form.
func EvaluateExact(expr string, amount decimal.Decimal) (decimal.Decimal, error) {
	p := &parser{input: expr}
	result, err := p.parseExpr()
	if err != nil {
		return decimal.Zero, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return decimal.Zero, fmt.Errorf("%w: unexpected %q at position %d", ErrInvalidFormula, p.input[p.pos:], p.pos)
	}
	return result.eval(amount)
}

// Validate parses expr without evaluating it against a real amount.
func Validate(expr string) error {
	_, err := Evaluate(expr, decimal.NewFromInt(1))
	return err
}

// node is an expression tree node. Trees are evaluated rather than folded at
// parse time so ErrDivisionByZero reflects the bound amount.
type node interface {
	eval(amount decimal.Decimal) (decimal.Decimal, error)
}

type literal struct{ value decimal.Decimal }

func (l literal) eval(decimal.Decimal) (decimal.Decimal, error) {
	return l.value, nil
}

type amountRef struct{}

func (amountRef) eval(amount decimal.Decimal) (decimal.Decimal, error) {
	return amount, nil
}

type unaryNeg struct{ operand node }

func (n unaryNeg) eval(amount decimal.Decimal) (decimal.Decimal, error) {
	v, err := n.operand.eval(amount)
	if err != nil {
		return decimal.Zero, err
	}
	return v.Neg(), nil
}

type binary struct {
	op          byte
	left, right node
}

func (n binary) eval(amount decimal.Decimal) (decimal.Decimal, error) {
	left, err := n.left.eval(amount)
	if err != nil {
		return decimal.Zero, err
	}
	right, err := n.right.eval(amount)
	if err != nil {
		return decimal.Zero, err
	}
	switch n.op {
	case '+':
		return left.Add(right), nil
	case '-':
		return left.Sub(right), nil
	case '*':
		return left.Mul(right), nil
	case '/':
		if right.IsZero() {
			return decimal.Zero, ErrDivisionByZero
		}
		return left.Div(right), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown operator %q", ErrInvalidFormula, n.op)
	}
}

// parser is a recursive-descent parser over the fixed grammar:
//
//	expr   = term (("+" | "-") term)*
//	term   = factor (("*" | "/") factor)*
//	factor = "-" factor | number | "amount" | "(" expr ")"
type parser struct {
	input string
	pos   int
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpaces()
		if op, ok := p.peek(); ok && (op == '+' || op == '-') {
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = binary{op: op, left: left, right: right}
			continue
		}
		return left, nil
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpaces()
		if op, ok := p.peek(); ok && (op == '*' || op == '/') {
			p.pos++
			right, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			left = binary{op: op, left: left, right: right}
			continue
		}
		return left, nil
	}
}

func (p *parser) parseFactor() (node, error) {
	p.skipSpaces()
	ch, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrInvalidFormula)
	}

	switch {
	case ch == '-':
		p.pos++
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return unaryNeg{operand: operand}, nil

	case ch == '(':
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpaces()
		if next, ok := p.peek(); !ok || next != ')' {
			return nil, fmt.Errorf("%w: missing closing parenthesis", ErrInvalidFormula)
		}
		p.pos++
		return inner, nil

	case ch >= '0' && ch <= '9' || ch == '.':
		return p.parseNumber()

	case unicode.IsLetter(rune(ch)) || ch == '_':
		return p.parseIdentifier()

	default:
		return nil, fmt.Errorf("%w: unexpected character %q at position %d", ErrInvalidFormula, ch, p.pos)
	}
}

func (p *parser) parseNumber() (node, error) {
	start := p.pos
	seenDot := false
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch == '.' {
			if seenDot {
				return nil, fmt.Errorf("%w: malformed number at position %d", ErrInvalidFormula, start)
			}
			seenDot = true
			p.pos++
			continue
		}
		if ch < '0' || ch > '9' {
			break
		}
		p.pos++
	}
	text := p.input[start:p.pos]
	if text == "." {
		return nil, fmt.Errorf("%w: malformed number at position %d", ErrInvalidFormula, start)
	}
	value, err := decimal.NewFromString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed number %q", ErrInvalidFormula, text)
	}
	return literal{value: value}, nil
}

func (p *parser) parseIdentifier() (node, error) {
	start := p.pos
	for p.pos < len(p.input) {
		ch := rune(p.input[p.pos])
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
			break
		}
		p.pos++
	}
	name := p.input[start:p.pos]
	if strings.EqualFold(name, "amount") {
		return amountRef{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnboundVariable, name)
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}
