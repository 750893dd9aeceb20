// Package core provides month keys and amount parsing/formatting shared by
// every other package.
//
// Amounts are shopspring decimals so that category sums and the payroll
// multiplier stay exact; floats are only produced at the presentation edge.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrInvalidMonthKey = errors.New("invalid month key, expected YYYY-MM")
)

// ParseAmount converts user input into a decimal.
//
// It accepts an optional leading sign and dollar sign and strips thousands
// separators, so all of these parse:
//
//	ParseAmount("12.34")     -> 12.34
//	ParseAmount("$1,234.50") -> 1234.5
//	ParseAmount("-40")       -> -40
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		// "--5" or "-$-5"
		return decimal.Zero, ErrInvalidAmount
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// ParseAmountOrZero is ParseAmount with every failure mapped to zero. Form
// fields use it: an unparseable entry reads as an empty field.
func ParseAmountOrZero(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatUSD formats an amount as dollars with thousands separators,
// e.g. "$1,234.56" or "-$40.00".
func FormatUSD(d decimal.Decimal) string {
	d = d.Round(2)
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatRate renders a percentage with one decimal, e.g. "10.0%".
func FormatRate(pct decimal.Decimal) string {
	return pct.StringFixed(1) + "%"
}
