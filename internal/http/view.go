package http

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/calc"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/report"
	"fintrack/internal/services"
)

// pageData is what the index and tracker templates render.
type pageData struct {
	Month        string
	MonthLabel   string
	Saved        bool
	Summary      []report.Line
	Breakdown    []sliceView
	Sections     []sectionView
	Expenses     []expenseView
	ExpenseTotal string
	Profile      *profileView
	Archive      []archiveRow
}

type sliceView struct {
	Name   string
	Amount string
	Share  string
	Width  string
}

type sectionView struct {
	Category string
	Title    string
	Total    string
	Entries  []entryView
}

type entryView struct {
	Key         string
	Label       string
	Group       string
	Value       string
	Description string
}

type expenseView struct {
	ID       int64
	Category string
	Name     string
	Amount   string
}

type profileView struct {
	PrimarySalary string
	Deductions    []entryView
}

type archiveRow struct {
	Month    string
	Label    string
	Income   string
	Outflows string
	Net      string
	Current  bool
}

// inputValue is the editable form of an amount; zero renders empty so the
// placeholder shows.
func inputValue(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}

func entryViews(entries []ledger.Entry) []entryView {
	out := make([]entryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryView{
			Key:         e.Key,
			Label:       e.Label,
			Group:       e.Group,
			Value:       inputValue(e.Amount),
			Description: e.Description,
		})
	}
	return out
}

func buildPage(t *services.Tracker) pageData {
	b := t.Bundle()
	key := b.MonthKey

	page := pageData{
		Month:        key.String(),
		MonthLabel:   key.Label(),
		Saved:        t.IsSaved(),
		Summary:      report.Summary(b),
		ExpenseTotal: core.FormatUSD(b.Totals.TotalCustomExpenses),
	}

	for _, s := range calc.Breakdown(b.Totals) {
		page.Breakdown = append(page.Breakdown, sliceView{
			Name:   s.Name,
			Amount: core.FormatUSD(s.Amount),
			Share:  core.FormatRate(s.Share),
			Width:  s.Share.StringFixed(1),
		})
	}

	for _, c := range ledger.Categories(b.Ledger.Variant) {
		entries, err := b.Ledger.Entries(c)
		if err != nil {
			continue
		}
		page.Sections = append(page.Sections, sectionView{
			Category: string(c),
			Title:    c.Label(),
			Total:    core.FormatUSD(report.CategoryTotal(c, b.Totals)),
			Entries:  entryViews(entries),
		})
	}

	for _, e := range b.CustomExpenses {
		page.Expenses = append(page.Expenses, expenseView{
			ID:       e.ID,
			Category: e.Category,
			Name:     e.Name,
			Amount:   e.Amount.StringFixed(2),
		})
	}

	if b.Ledger.Variant == ledger.VariantSimple {
		page.Profile = buildProfile(t.Profile())
	}

	for _, m := range t.Archive() {
		page.Archive = append(page.Archive, archiveRow{
			Month:    m.MonthYear.String(),
			Label:    m.Label,
			Income:   core.FormatUSD(m.TotalIncome),
			Outflows: core.FormatUSD(m.TotalOutflows),
			Net:      core.FormatUSD(m.NetCashFlow),
			Current:  m.MonthYear == key,
		})
	}
	return page
}

// buildProfile reuses the ledger's labels by applying the profile to a
// scratch ledger.
func buildProfile(p ledger.PayProfile) *profileView {
	scratch := ledger.FreshLedger(ledger.VariantSimple)
	if err := scratch.ApplyProfile(p); err != nil {
		return nil
	}
	entries, err := scratch.Entries(ledger.CategoryAutomaticDeductions)
	if err != nil {
		return nil
	}
	return &profileView{
		PrimarySalary: inputValue(p.PrimarySalary),
		Deductions:    entryViews(entries),
	}
}
