// Package sheets mirrors saved-month summaries into a spreadsheet.
package sheets

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

// Header is the first row of the mirror sheet.
var Header = []string{"Month", "Income", "Outflows", "Net Cash Flow", "Investment Rate", "Savings Rate", "Last Saved"}

// Row is the mirrored summary of one saved month.
type Row struct {
	Month          core.MonthKey
	Income         decimal.Decimal
	Outflows       decimal.Decimal
	NetCashFlow    decimal.Decimal
	InvestmentRate decimal.Decimal
	SavingsRate    decimal.Decimal
	LastSaved      time.Time
}

func RowFromSummary(s report.MonthSummary) Row {
	return Row{
		Month:          s.MonthYear,
		Income:         s.TotalIncome,
		Outflows:       s.TotalOutflows,
		NetCashFlow:    s.NetCashFlow,
		InvestmentRate: s.InvestmentRate,
		SavingsRate:    s.SavingsRate,
		LastSaved:      s.SavedAt,
	}
}

// Values renders the row in Header order. Amounts stay numeric so the
// spreadsheet can sum them.
func (r Row) Values() []any {
	income, _ := r.Income.Round(2).Float64()
	outflows, _ := r.Outflows.Round(2).Float64()
	net, _ := r.NetCashFlow.Round(2).Float64()
	inv, _ := r.InvestmentRate.Round(1).Float64()
	sav, _ := r.SavingsRate.Round(1).Float64()
	return []any{
		r.Month.String(),
		income,
		outflows,
		net,
		inv,
		sav,
		r.LastSaved.UTC().Format(time.RFC3339),
	}
}

// Ports for outbound adapters.
type (
	SummaryWriter interface {
		// UpsertMonth writes the row of r.Month, replacing an existing one.
		UpsertMonth(ctx context.Context, r Row) error
		// DeleteMonth clears the row of month. A missing row is not an error.
		DeleteMonth(ctx context.Context, month core.MonthKey) error
	}

	// MonthLister returns the months that currently have a row.
	MonthLister interface {
		ListMonths(ctx context.Context) ([]core.MonthKey, error)
	}

	Mirror interface {
		SummaryWriter
		MonthLister
	}
)
