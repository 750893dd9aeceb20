// Package calc derives totals and rates from a ledger. Everything here is a
// pure function of its inputs; results are recomputed on every call.
package calc

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/ledger"
)

// PayPeriodsPerMonth converts a biweekly figure to an approximate monthly one.
var PayPeriodsPerMonth = decimal.RequireFromString("2.17")

var hundred = decimal.NewFromInt(100)

// PayrollTotals is the pay stub breakdown of a payroll ledger.
type PayrollTotals struct {
	BiweeklyGross     decimal.Decimal `json:"biweeklyGross"`
	TotalTax          decimal.Decimal `json:"totalTax"`
	TotalPretax       decimal.Decimal `json:"totalPretax"`
	TotalOther        decimal.Decimal `json:"totalOther"`
	BiweeklyNet       decimal.Decimal `json:"biweeklyNet"`
	MonthlyGross      decimal.Decimal `json:"monthlyGross"`
	MonthlyNet        decimal.Decimal `json:"monthlyNet"`
	MonthlyDeductions decimal.Decimal `json:"monthlyDeductions"`
	EffectiveRate     decimal.Decimal `json:"effectiveRate"`
}

type Totals struct {
	TotalIncome              decimal.Decimal `json:"totalIncome"`
	TotalAdditionalIncome    decimal.Decimal `json:"totalAdditionalIncome"`
	TotalAutomaticDeductions decimal.Decimal `json:"totalAutomaticDeductions"`
	TotalInvestments         decimal.Decimal `json:"totalInvestments"`
	TotalSavings             decimal.Decimal `json:"totalSavings"`
	NetVenmo                 decimal.Decimal `json:"netVenmo"`
	TotalCreditCards         decimal.Decimal `json:"totalCreditCards"`
	TotalEssentials          decimal.Decimal `json:"totalEssentials"`
	TotalDiscretionary       decimal.Decimal `json:"totalDiscretionary"`
	TotalCustomExpenses      decimal.Decimal `json:"totalCustomExpenses"`
	TotalSpending            decimal.Decimal `json:"totalSpending"`
	TotalOutflows            decimal.Decimal `json:"totalOutflows"`
	NetCashFlow              decimal.Decimal `json:"netCashFlow"`

	// Percentages rounded to one decimal.
	InvestmentRate decimal.Decimal `json:"investmentRate"`
	SavingsRate    decimal.Decimal `json:"savingsRate"`

	Payroll *PayrollTotals `json:"payroll,omitempty"`
}

// Compute derives the totals bundle for one month.
func Compute(l *ledger.MonthlyLedger, expenses ledger.Expenses) Totals {
	var t Totals

	t.TotalInvestments = l.Sum(ledger.CategoryInvestments)
	t.TotalSavings = l.Sum(ledger.CategorySavings)
	t.NetVenmo = l.Sum(ledger.CategoryVenmo)
	t.TotalCreditCards = l.Sum(ledger.CategoryCreditCards)
	t.TotalEssentials = l.Sum(ledger.CategoryEssentials)
	t.TotalDiscretionary = l.Sum(ledger.CategoryDiscretionary)
	t.TotalCustomExpenses = expenses.Total()

	if l.Variant == ledger.VariantPayroll {
		p := Payroll(l)
		t.Payroll = &p
		t.TotalAdditionalIncome = l.Sum(ledger.CategoryAdditionalIncome)
		t.TotalIncome = p.MonthlyNet.Add(t.TotalAdditionalIncome)
	} else {
		t.TotalIncome = l.Sum(ledger.CategoryIncome)
		t.TotalAutomaticDeductions = l.AutomaticDeductions.Total()
	}

	t.TotalSpending = sum(t.TotalCreditCards, t.TotalEssentials, t.TotalDiscretionary, t.TotalCustomExpenses)
	t.TotalOutflows = sum(
		t.TotalAutomaticDeductions,
		t.TotalInvestments,
		t.TotalSavings,
		t.NetVenmo.Abs(),
		t.TotalSpending,
	)
	t.NetCashFlow = t.TotalIncome.Sub(t.TotalOutflows)

	t.InvestmentRate = Rate(t.TotalInvestments, t.TotalIncome)
	t.SavingsRate = Rate(t.TotalSavings, t.TotalIncome)
	return t
}

// Payroll computes the pay stub breakdown. Monthly figures are the biweekly
// ones multiplied by PayPeriodsPerMonth.
func Payroll(l *ledger.MonthlyLedger) PayrollTotals {
	var p PayrollTotals
	p.BiweeklyGross = l.SumGroup(ledger.GroupGross)
	p.TotalTax = l.SumGroup(ledger.GroupTax)
	p.TotalPretax = l.SumGroup(ledger.GroupPretax)
	p.TotalOther = l.SumGroup(ledger.GroupOther)

	withheld := sum(p.TotalTax, p.TotalPretax, p.TotalOther)
	p.BiweeklyNet = p.BiweeklyGross.Sub(withheld)
	p.MonthlyGross = p.BiweeklyGross.Mul(PayPeriodsPerMonth)
	p.MonthlyNet = p.BiweeklyNet.Mul(PayPeriodsPerMonth)
	p.MonthlyDeductions = withheld.Mul(PayPeriodsPerMonth)
	p.EffectiveRate = Rate(withheld, p.BiweeklyGross)
	return p
}

// Rate returns part/whole as a percentage rounded to one decimal, or zero
// when whole is not positive.
func Rate(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(1)
}

func sum(ds ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range ds {
		total = total.Add(d)
	}
	return total
}
