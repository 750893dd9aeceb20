package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SetEntry assigns one account line. For automaticDeductions the key names a
// deduction and the value is its amount.
func (l *MonthlyLedger) SetEntry(c Category, key string, value decimal.Decimal) error {
	if c == CategoryAutomaticDeductions {
		return l.SetDeductionAmount(key, value)
	}
	sec, err := l.section(c)
	if err != nil {
		return err
	}
	for _, f := range sec.fields() {
		if f.key == key {
			*f.value = value
			return nil
		}
	}
	return fmt.Errorf("%w: %s.%s", ErrUnknownField, c, key)
}

func (l *MonthlyLedger) deduction(key string) (*DeductionEntry, error) {
	if _, err := ParseCategory(l.Variant, string(CategoryAutomaticDeductions)); err != nil {
		return nil, err
	}
	i := l.AutomaticDeductions.index(key)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, CategoryAutomaticDeductions, key)
	}
	return &l.AutomaticDeductions[i], nil
}

func (l *MonthlyLedger) SetDeductionAmount(key string, amount decimal.Decimal) error {
	d, err := l.deduction(key)
	if err != nil {
		return err
	}
	d.Amount = amount
	return nil
}

func (l *MonthlyLedger) SetDeductionDescription(key, description string) error {
	d, err := l.deduction(key)
	if err != nil {
		return err
	}
	d.Description = description
	return nil
}
