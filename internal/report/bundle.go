// Package report assembles the totals bundle of one month and renders it.
// Renderers only format what the bundle carries; no figure is derived here
// outside calc.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/calc"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/snapshot"
)

// Bundle is everything a renderer needs for one month.
type Bundle struct {
	MonthKey       core.MonthKey         `json:"monthKey"`
	Ledger         *ledger.MonthlyLedger `json:"ledger"`
	CustomExpenses ledger.Expenses       `json:"customExpenses"`
	Totals         calc.Totals           `json:"totals"`
}

// Assemble copies the inputs and computes their totals.
func Assemble(key core.MonthKey, l *ledger.MonthlyLedger, expenses ledger.Expenses) Bundle {
	l = l.Clone()
	expenses = expenses.Clone()
	return Bundle{
		MonthKey:       key,
		Ledger:         l,
		CustomExpenses: expenses,
		Totals:         calc.Compute(l, expenses),
	}
}

// Line is one formatted row.
type Line struct {
	Label string
	Value string
	Note  string
}

type Section struct {
	Title string
	Total string
	Lines []Line
}

// Summary lists the headline figures.
func Summary(b Bundle) []Line {
	t := b.Totals
	lines := []Line{
		{Label: "Total Income", Value: core.FormatUSD(t.TotalIncome)},
		{Label: "Total Outflows", Value: core.FormatUSD(t.TotalOutflows)},
		{Label: "Net Cash Flow", Value: core.FormatUSD(t.NetCashFlow)},
		{Label: "Investment Rate", Value: core.FormatRate(t.InvestmentRate)},
		{Label: "Savings Rate", Value: core.FormatRate(t.SavingsRate)},
	}
	if p := t.Payroll; p != nil {
		lines = append(lines,
			Line{Label: "Monthly Net Pay", Value: core.FormatUSD(p.MonthlyNet), Note: "biweekly x " + calc.PayPeriodsPerMonth.String()},
			Line{Label: "Effective Deduction Rate", Value: core.FormatRate(p.EffectiveRate)},
		)
	}
	if !t.NetVenmo.IsZero() {
		lines = append(lines, Line{Label: "Net Venmo Flow", Value: core.FormatUSD(t.NetVenmo)})
	}
	return lines
}

// CategoryTotal is the figure shown next to a category heading. Payroll
// shows biweekly net pay.
func CategoryTotal(c ledger.Category, t calc.Totals) decimal.Decimal {
	switch c {
	case ledger.CategoryIncome:
		return t.TotalIncome
	case ledger.CategoryPayroll:
		if t.Payroll != nil {
			return t.Payroll.BiweeklyNet
		}
	case ledger.CategoryAdditionalIncome:
		return t.TotalAdditionalIncome
	case ledger.CategoryAutomaticDeductions:
		return t.TotalAutomaticDeductions
	case ledger.CategoryInvestments:
		return t.TotalInvestments
	case ledger.CategorySavings:
		return t.TotalSavings
	case ledger.CategoryVenmo:
		return t.NetVenmo
	case ledger.CategoryCreditCards:
		return t.TotalCreditCards
	case ledger.CategoryEssentials:
		return t.TotalEssentials
	case ledger.CategoryDiscretionary:
		return t.TotalDiscretionary
	}
	return decimal.Zero
}

// Sections returns one section per category with a non-zero entry, followed
// by the custom expenses when there are any.
func Sections(b Bundle) []Section {
	var out []Section
	for _, c := range ledger.Categories(b.Ledger.Variant) {
		entries, err := b.Ledger.Entries(c)
		if err != nil {
			continue
		}
		var lines []Line
		for _, e := range entries {
			if e.Amount.IsZero() {
				continue
			}
			lines = append(lines, Line{Label: e.Label, Value: core.FormatUSD(e.Amount), Note: e.Description})
		}
		if len(lines) == 0 {
			continue
		}
		title := c.Label()
		if c == ledger.CategoryPayroll {
			title += " - net"
		}
		out = append(out, Section{
			Title: title,
			Total: core.FormatUSD(CategoryTotal(c, b.Totals)),
			Lines: lines,
		})
	}

	if len(b.CustomExpenses) > 0 {
		sec := Section{Title: "Custom Expenses", Total: core.FormatUSD(b.Totals.TotalCustomExpenses)}
		for _, e := range b.CustomExpenses {
			sec.Lines = append(sec.Lines, Line{
				Label: fmt.Sprintf("%s - %s", e.Category, e.Name),
				Value: core.FormatUSD(e.Amount),
			})
		}
		out = append(out, sec)
	}
	return out
}

// MonthSummary is one row of the saved-month archive.
type MonthSummary struct {
	MonthYear      core.MonthKey   `json:"monthYear"`
	Label          string          `json:"label"`
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	TotalOutflows  decimal.Decimal `json:"totalOutflows"`
	NetCashFlow    decimal.Decimal `json:"netCashFlow"`
	InvestmentRate decimal.Decimal `json:"investmentRate"`
	SavingsRate    decimal.Decimal `json:"savingsRate"`
	SavedAt        time.Time       `json:"savedAt"`
}

func SummarizeSnapshot(s snapshot.MonthSnapshot) MonthSummary {
	t := calc.Compute(s.Ledger, s.CustomExpenses)
	return MonthSummary{
		MonthYear:      s.MonthYear,
		Label:          s.MonthYear.Label(),
		TotalIncome:    t.TotalIncome,
		TotalOutflows:  t.TotalOutflows,
		NetCashFlow:    t.NetCashFlow,
		InvestmentRate: t.InvestmentRate,
		SavingsRate:    t.SavingsRate,
		SavedAt:        s.Timestamp,
	}
}

// Summaries summarises snapshots, newest month first.
func Summaries(snaps []snapshot.MonthSnapshot) []MonthSummary {
	out := make([]MonthSummary, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, SummarizeSnapshot(s))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MonthYear.String() > out[j].MonthYear.String()
	})
	return out
}
