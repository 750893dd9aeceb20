package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type failingPersister struct {
	MemoryPersister
	fail bool
}

func (p *failingPersister) Save(ctx context.Context, data []byte) error {
	if p.fail {
		return errors.New("disk full")
	}
	return p.MemoryPersister.Save(ctx, data)
}

func newStore(t *testing.T, p Persister) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}
	s, err := Open(context.Background(), p, ledger.VariantSimple, WithClock(clock.Now))
	require.NoError(t, err)
	return s, clock
}

func ledgerWithIncome(amount int64) *ledger.MonthlyLedger {
	l := ledger.FreshLedger(ledger.VariantSimple)
	l.Income.PrimarySalary = decimal.NewFromInt(amount)
	return l
}

func TestLoadNotFound(t *testing.T) {
	s, _ := newStore(t, NewMemoryPersister(nil))
	_, err := s.Load(core.MustMonthKey("2024-01"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, s.List())
}

func TestSaveUpsertKeepsPosition(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister(nil)
	s, clock := newStore(t, p)

	jan := core.MustMonthKey("2024-01")
	feb := core.MustMonthKey("2024-02")
	_, err := s.Save(ctx, jan, ledgerWithIncome(1000), nil)
	require.NoError(t, err)
	_, err = s.Save(ctx, feb, ledgerWithIncome(2000), nil)
	require.NoError(t, err)
	first, err := s.Load(jan)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	_, err = s.Save(ctx, jan, ledgerWithIncome(1000), nil)
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, jan, list[0].MonthYear)
	assert.Equal(t, feb, list[1].MonthYear)
	assert.True(t, list[0].Timestamp.After(first.Timestamp))
	assert.True(t, clock.Now().Equal(list[0].Timestamp))

	// overwrite is total, not a merge
	l := ledger.FreshLedger(ledger.VariantSimple)
	l.Essentials.Groceries = decimal.NewFromInt(80)
	_, err = s.Save(ctx, jan, l, nil)
	require.NoError(t, err)
	got, err := s.Load(jan)
	require.NoError(t, err)
	assert.True(t, got.Ledger.Income.PrimarySalary.IsZero())
	assert.True(t, got.Ledger.Essentials.Groceries.Equal(decimal.NewFromInt(80)))
}

func TestSaveCopiesInput(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, NewMemoryPersister(nil))
	key := core.MustMonthKey("2024-03")

	l := ledgerWithIncome(500)
	exp := ledger.Expenses{{ID: 1, Category: "Dining", Name: "Coffee", Amount: decimal.NewFromInt(15)}}
	_, err := s.Save(ctx, key, l, exp)
	require.NoError(t, err)

	l.Income.PrimarySalary = decimal.NewFromInt(1)
	exp[0].Name = "Tea"

	got, err := s.Load(key)
	require.NoError(t, err)
	assert.True(t, got.Ledger.Income.PrimarySalary.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "Coffee", got.CustomExpenses[0].Name)

	got.Ledger.Income.PrimarySalary = decimal.NewFromInt(9)
	again, err := s.Load(key)
	require.NoError(t, err)
	assert.True(t, again.Ledger.Income.PrimarySalary.Equal(decimal.NewFromInt(500)))
}

func TestEveryMutationPersists(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister(nil)
	s, _ := newStore(t, p)
	key := core.MustMonthKey("2024-05")

	_, err := s.Save(ctx, key, ledgerWithIncome(10), nil)
	require.NoError(t, err)

	reopened, err := Open(ctx, p, ledger.VariantSimple)
	require.NoError(t, err)
	require.Equal(t, 1, reopened.Len())

	require.NoError(t, s.Delete(ctx, key))
	reopened, err = Open(ctx, p, ledger.VariantSimple)
	require.NoError(t, err)
	assert.Equal(t, 0, reopened.Len())

	assert.ErrorIs(t, s.Delete(ctx, key), ErrNotFound)
}

func TestPersistFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	p := &failingPersister{}
	s, _ := newStore(t, p)
	key := core.MustMonthKey("2024-01")
	_, err := s.Save(ctx, key, ledgerWithIncome(1), nil)
	require.NoError(t, err)

	p.fail = true
	_, err = s.Save(ctx, core.MustMonthKey("2024-02"), ledgerWithIncome(2), nil)
	assert.Error(t, err)
	assert.Error(t, s.Delete(ctx, key))
	assert.Equal(t, 1, s.Len())

	before := s.ExportAll()
	_, err = s.ImportAll(ctx, []byte(`{"savedMonths":[]}`))
	assert.Error(t, err)
	assert.Equal(t, before.SavedMonths, s.ExportAll().SavedMonths)
}

func TestSaveRejectsOtherVariant(t *testing.T) {
	s, _ := newStore(t, NewMemoryPersister(nil))
	_, err := s.Save(context.Background(), core.MustMonthKey("2024-01"), ledger.FreshLedger(ledger.VariantPayroll), nil)
	assert.ErrorIs(t, err, ErrVariantMismatch)
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src, _ := newStore(t, NewMemoryPersister(nil))
	_, err := src.Save(ctx, core.MustMonthKey("2024-01"), ledgerWithIncome(1000), nil)
	require.NoError(t, err)
	_, err = src.Save(ctx, core.MustMonthKey("2023-12"), ledgerWithIncome(900), ledger.Expenses{
		{ID: 7, Category: "Dining", Name: "Coffee", Amount: decimal.NewFromInt(15)},
	})
	require.NoError(t, err)

	doc := src.ExportAll()
	assert.Equal(t, "1.0", doc.Version)
	data, err := doc.Encode()
	require.NoError(t, err)

	var shape map[string]any
	require.NoError(t, json.Unmarshal(data, &shape))
	assert.Contains(t, shape, "savedMonths")
	assert.Contains(t, shape, "exportDate")

	dst, _ := newStore(t, NewMemoryPersister(nil))
	_, err = dst.Save(ctx, core.MustMonthKey("2020-06"), ledgerWithIncome(1), nil)
	require.NoError(t, err)

	n, err := dst.ImportAll(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list := dst.List()
	require.Len(t, list, 2)
	assert.Equal(t, "2024-01", list[0].MonthYear.String())
	assert.Equal(t, "Coffee", list[1].CustomExpenses[0].Name)
	_, err = dst.Load(core.MustMonthKey("2020-06"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImportRejectsMalformed(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister(nil)
	s, _ := newStore(t, p)
	_, err := s.Save(ctx, core.MustMonthKey("2024-01"), ledgerWithIncome(1000), nil)
	require.NoError(t, err)
	before, err := p.Load(ctx)
	require.NoError(t, err)

	docs := []string{
		`{"foo": 1}`,
		`{"savedMonths": {"2024-01": {}}}`,
		`{"savedMonths": "nope"}`,
		`{"savedMonths": null}`,
		`[1, 2]`,
		`not json`,
		`{"savedMonths": [{"monthYear": "January", "data": {}}]}`,
		`{"savedMonths": [{"monthYear": "2024-02"}]}`,
		`{"savedMonths": [{"monthYear": "2024-02", "data": {}}, {"monthYear": "2024-02", "data": {}}]}`,
		`{"savedMonths": [{"monthYear": "2024-02", "data": {"payroll": {}}}]}`,
	}
	for _, doc := range docs {
		_, err := s.ImportAll(ctx, []byte(doc))
		assert.ErrorIs(t, err, ErrMalformedImport, doc)

		after, err := p.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after, doc)
		assert.Equal(t, 1, s.Len())
	}
}

func TestImportReadsLegacySnapshots(t *testing.T) {
	doc := `{
	  "savedMonths": [{
	    "id": "2024-01",
	    "monthYear": "2024-01",
	    "data": {"income": {"primarySalary": 5000, "otherIncome": ""}, "venmo": {"venmo_payments": -40}},
	    "customExpenses": [{"id": 1705312800000, "category": "Dining", "name": "Coffee", "amount": 15}],
	    "timestamp": "2024-01-15T10:00:00.000Z"
	  }],
	  "exportDate": "2024-02-01T00:00:00.000Z",
	  "version": "1.0"
	}`
	s, _ := newStore(t, NewMemoryPersister(nil))
	n, err := s.ImportAll(context.Background(), []byte(doc))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	snap, err := s.Load(core.MustMonthKey("2024-01"))
	require.NoError(t, err)
	assert.True(t, snap.Ledger.Income.PrimarySalary.Equal(decimal.NewFromInt(5000)))
	assert.True(t, snap.Ledger.Income.OtherIncome.IsZero())
	assert.True(t, snap.Ledger.Venmo.Payments.Equal(decimal.NewFromInt(-40)))
	assert.Len(t, snap.Ledger.AutomaticDeductions, 9)
	assert.Equal(t, int64(1705312800000), snap.CustomExpenses[0].ID)
	assert.True(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC).Equal(snap.Timestamp))
}

func TestOpenRejectsOtherVariant(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister(nil)
	s, _ := newStore(t, p)
	_, err := s.Save(ctx, core.MustMonthKey("2024-01"), ledgerWithIncome(1), nil)
	require.NoError(t, err)

	_, err = Open(ctx, p, ledger.VariantPayroll)
	assert.ErrorIs(t, err, ErrVariantMismatch)
}

func TestExportFilename(t *testing.T) {
	day := time.Date(2024, 3, 9, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, "financial-tracker-backup-2024-03-09.json", ExportFilename(day))
}
