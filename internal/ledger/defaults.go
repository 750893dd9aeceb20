package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

var defaultDeductions = []struct {
	key         string
	description string
}{
	{"401k_contribution", "4% of gross salary with employer match"},
	{"hsa_contribution", "Health Savings Account - triple tax advantaged"},
	{"cigna_insurance", "Cigna accident/injury insurance coverage"},
	{"health_insurance", "Medical/dental/vision insurance premiums"},
	{"life_insurance", "Company life insurance premiums"},
	{"disability_insurance", "Short/long term disability coverage"},
	{"parking_transit", "Pre-tax parking or transit benefits"},
	{"dependent_care_fsa", "Dependent Care Flexible Spending Account"},
	{"other_pretax", "Other pre-tax deductions (specify in description)"},
}

// DefaultDeductions returns the built-in deduction set with zero amounts.
func DefaultDeductions() Deductions {
	out := make(Deductions, 0, len(defaultDeductions))
	for _, d := range defaultDeductions {
		out = append(out, DeductionEntry{Key: d.key, Amount: decimal.Zero, Description: d.description})
	}
	return out
}

// FreshLedger returns a new zeroed ledger of the given variant. Each call
// allocates its own sections.
func FreshLedger(v Variant) *MonthlyLedger {
	l := &MonthlyLedger{Variant: v}
	if v == VariantPayroll {
		l.Payroll = &Payroll{}
		l.AdditionalIncome = &AdditionalIncome{}
		return l
	}
	l.Variant = VariantSimple
	l.Income = &Income{}
	l.AutomaticDeductions = DefaultDeductions()
	return l
}

// PayProfile is the reusable paycheck configuration of a simple ledger.
type PayProfile struct {
	PrimarySalary decimal.Decimal
	Deductions    Deductions
}

// SamplePayProfile is a worked example paycheck.
func SamplePayProfile() PayProfile {
	d := DefaultDeductions()
	amounts := map[string]int64{
		"401k_contribution": 442,
		"hsa_contribution":  72,
		"cigna_insurance":   32,
		"other_pretax":      155,
	}
	for i := range d {
		d[i].Amount = decimal.NewFromInt(amounts[d[i].Key])
	}
	return PayProfile{PrimarySalary: decimal.NewFromInt(6859), Deductions: d}
}

// ApplyProfile overwrites the primary salary and the whole deduction set.
func (l *MonthlyLedger) ApplyProfile(p PayProfile) error {
	if _, err := ParseCategory(l.Variant, string(CategoryIncome)); err != nil {
		return err
	}
	if l.Income == nil {
		l.Income = &Income{}
	}
	l.Income.PrimarySalary = p.PrimarySalary
	l.AutomaticDeductions = p.Deductions.Clone()
	return nil
}

// ResetIncome clears business and other income, then applies p.
func (l *MonthlyLedger) ResetIncome(p PayProfile) error {
	if err := l.ApplyProfile(p); err != nil {
		return err
	}
	l.Income.BusinessIncome = decimal.Zero
	l.Income.OtherIncome = decimal.Zero
	return nil
}

// humanizeKey turns "dependent_care_fsa" into "Dependent Care Fsa".
func humanizeKey(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
