package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/snapshot"
)

func sampleBundle(t *testing.T) Bundle {
	t.Helper()
	l := ledger.FreshLedger(ledger.VariantSimple)
	l.Income.PrimarySalary = decimal.NewFromInt(5000)
	l.Investments.Fidelity = decimal.NewFromInt(500)
	l.Venmo.Payments = decimal.NewFromInt(-100)
	require.NoError(t, l.SetDeductionAmount("hsa_contribution", decimal.NewFromInt(72)))

	var e ledger.Expenses
	_, err := e.Add(time.Now(), "Dining", "Coffee", decimal.NewFromInt(15))
	require.NoError(t, err)
	return Assemble(core.MustMonthKey("2024-01"), l, e)
}

func TestAssembleCopiesAndComputes(t *testing.T) {
	l := ledger.FreshLedger(ledger.VariantSimple)
	l.Income.PrimarySalary = decimal.NewFromInt(1000)
	b := Assemble(core.MustMonthKey("2024-01"), l, nil)

	l.Income.PrimarySalary = decimal.NewFromInt(1)
	assert.True(t, b.Ledger.Income.PrimarySalary.Equal(decimal.NewFromInt(1000)))
	assert.True(t, b.Totals.TotalIncome.Equal(decimal.NewFromInt(1000)))
	assert.NotNil(t, b.CustomExpenses)
}

func TestSummary(t *testing.T) {
	lines := Summary(sampleBundle(t))
	byLabel := map[string]string{}
	for _, l := range lines {
		byLabel[l.Label] = l.Value
	}
	assert.Equal(t, "$5,000.00", byLabel["Total Income"])
	assert.Equal(t, "$687.00", byLabel["Total Outflows"])
	assert.Equal(t, "$4,313.00", byLabel["Net Cash Flow"])
	assert.Equal(t, "10.0%", byLabel["Investment Rate"])
	assert.Equal(t, "0.0%", byLabel["Savings Rate"])
	assert.Equal(t, "-$100.00", byLabel["Net Venmo Flow"])
}

func TestSectionsSkipEmptyCategories(t *testing.T) {
	secs := Sections(sampleBundle(t))
	var titles []string
	for _, s := range secs {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Income", "Automatic Deductions", "Investments", "Venmo", "Custom Expenses"}, titles)

	ded := secs[1]
	require.Len(t, ded.Lines, 1)
	assert.Equal(t, "$72.00", ded.Lines[0].Value)
	assert.Equal(t, "Health Savings Account - triple tax advantaged", ded.Lines[0].Note)

	assert.Equal(t, "-$100.00", secs[3].Total)
	assert.Equal(t, "Dining - Coffee", secs[4].Lines[0].Label)
	assert.Equal(t, "$15.00", secs[4].Total)
}

func TestSectionsPayroll(t *testing.T) {
	l := ledger.FreshLedger(ledger.VariantPayroll)
	l.Payroll.GrossPay = decimal.NewFromInt(4000)
	l.Payroll.Medicare = decimal.NewFromInt(58)
	b := Assemble(core.MustMonthKey("2024-01"), l, nil)

	secs := Sections(b)
	require.Len(t, secs, 1)
	assert.Equal(t, "Payroll (Biweekly) - net", secs[0].Title)
	assert.Equal(t, "$3,942.00", secs[0].Total)
	assert.Len(t, secs[0].Lines, 2)

	var labels []string
	for _, line := range Summary(b) {
		labels = append(labels, line.Label)
	}
	assert.Contains(t, labels, "Monthly Net Pay")
	assert.Contains(t, labels, "Effective Deduction Rate")
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := TextRenderer{}
	require.NoError(t, r.Render(&buf, sampleBundle(t)))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Financial Summary Report\nMonth: January 2024\n"))
	assert.Contains(t, out, "Investments: $500.00")
	assert.Contains(t, out, "Dining - Coffee: $15.00")
	assert.NotContains(t, out, "\f")
	assert.Equal(t, "financial-summary-2024-01.txt", r.Filename(core.MustMonthKey("2024-01")))
}

func TestTextRendererPaginates(t *testing.T) {
	r := TextRenderer{PageLines: 12}
	pages := r.Pages(sampleBundle(t))
	require.Greater(t, len(pages), 1)
	for _, p := range pages {
		assert.LessOrEqual(t, len(p), 12)
		assert.NotEqual(t, "", p[0], "pages never start blank")
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, sampleBundle(t)))
	assert.Equal(t, len(pages)-1, strings.Count(buf.String(), "\f"))
}

func TestPDFRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := PDFRenderer{}
	require.NoError(t, r.Render(&buf, sampleBundle(t)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Equal(t, "financial-summary-2024-03.pdf", r.Filename(core.MustMonthKey("2024-03")))
	assert.Equal(t, "application/pdf", r.ContentType())
}

func TestPDFRendererManyExpenses(t *testing.T) {
	l := ledger.FreshLedger(ledger.VariantSimple)
	var e ledger.Expenses
	now := time.Now()
	for i := 0; i < 120; i++ {
		_, err := e.Add(now, "Misc", "Item café", decimal.NewFromInt(int64(i+1)))
		require.NoError(t, err)
	}
	var buf bytes.Buffer
	require.NoError(t, PDFRenderer{}.Render(&buf, Assemble(core.MustMonthKey("2024-01"), l, e)))
	assert.NotZero(t, buf.Len())
}

func TestNewRenderer(t *testing.T) {
	r, err := NewRenderer("text")
	require.NoError(t, err)
	assert.IsType(t, TextRenderer{}, r)
	r, err = NewRenderer("")
	require.NoError(t, err)
	assert.IsType(t, PDFRenderer{}, r)
	_, err = NewRenderer("docx")
	assert.Error(t, err)
}

func TestSummaries(t *testing.T) {
	mk := func(key string, income int64) snapshot.MonthSnapshot {
		l := ledger.FreshLedger(ledger.VariantSimple)
		l.Income.PrimarySalary = decimal.NewFromInt(income)
		return snapshot.MonthSnapshot{MonthYear: core.MustMonthKey(key), Ledger: l}
	}
	out := Summaries([]snapshot.MonthSnapshot{mk("2023-11", 1), mk("2024-02", 2), mk("2024-01", 3)})
	require.Len(t, out, 3)
	assert.Equal(t, "2024-02", out[0].MonthYear.String())
	assert.Equal(t, "2023-11", out[2].MonthYear.String())
	assert.Equal(t, "January 2024", out[1].Label)
	assert.True(t, out[1].TotalIncome.Equal(decimal.NewFromInt(3)))
}
