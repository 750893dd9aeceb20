package calc

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/ledger"
)

// Slice is one bar of the spending chart.
type Slice struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Share  decimal.Decimal `json:"share"`
}

// Breakdown splits the month's outflows into chart slices. Share is a
// percentage of the slice total; zero slices are kept so the chart legend
// stays stable.
func Breakdown(t Totals) []Slice {
	slices := []Slice{
		{Name: ledger.CategoryInvestments.Label(), Amount: t.TotalInvestments},
		{Name: ledger.CategorySavings.Label(), Amount: t.TotalSavings},
		{Name: ledger.CategoryCreditCards.Label(), Amount: t.TotalCreditCards},
		{Name: ledger.CategoryEssentials.Label(), Amount: t.TotalEssentials},
		{Name: ledger.CategoryDiscretionary.Label(), Amount: t.TotalDiscretionary},
		{Name: "Custom Expenses", Amount: t.TotalCustomExpenses},
	}
	if t.Payroll == nil {
		slices = append([]Slice{{Name: ledger.CategoryAutomaticDeductions.Label(), Amount: t.TotalAutomaticDeductions}}, slices...)
	}

	total := decimal.Zero
	for _, s := range slices {
		total = total.Add(s.Amount)
	}
	for i := range slices {
		slices[i].Share = Rate(slices[i].Amount, total)
	}
	return slices
}
