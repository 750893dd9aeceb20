// Package navigator holds the month cursor and the editable working copy of
// that month. Moving the cursor reloads the working copy from the snapshot
// store, dropping any unsaved edits.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/calc"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/report"
	"fintrack/internal/snapshot"
)

type Navigator struct {
	mu    sync.Mutex
	store *snapshot.Store
	now   func() time.Time

	cursor   core.MonthKey
	working  *ledger.MonthlyLedger
	expenses ledger.Expenses
	saved    bool
	profile  ledger.PayProfile
}

type Option func(*Navigator)

func WithClock(now func() time.Time) Option {
	return func(n *Navigator) { n.now = now }
}

// WithProfile sets the pay profile applied by ApplyProfile.
func WithProfile(p ledger.PayProfile) Option {
	return func(n *Navigator) { n.profile = p }
}

// New positions the cursor on the current real-world month and loads it.
func New(store *snapshot.Store, opts ...Option) *Navigator {
	n := &Navigator{store: store, now: time.Now, profile: ledger.SamplePayProfile()}
	for _, o := range opts {
		o(n)
	}
	n.goTo(core.CurrentMonthKey(n.now()))
	return n
}

// goTo moves the cursor and replaces the working copy. Callers hold n.mu,
// except New.
func (n *Navigator) goTo(key core.MonthKey) {
	n.cursor = key
	snap, err := n.store.Load(key)
	if err != nil {
		n.working = ledger.FreshLedger(n.store.Variant())
		n.expenses = ledger.Expenses{}
		n.saved = false
		return
	}
	n.working = snap.Ledger
	n.expenses = snap.CustomExpenses
	n.saved = true
}

func (n *Navigator) Current() core.MonthKey {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cursor
}

// IsSaved reports whether the current month has a snapshot.
func (n *Navigator) IsSaved() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.saved
}

func (n *Navigator) Next() core.MonthKey {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.goTo(n.cursor.Next())
	return n.cursor
}

func (n *Navigator) Prev() core.MonthKey {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.goTo(n.cursor.Prev())
	return n.cursor
}

// Goto jumps to an arbitrary month, reloading even when key is the current
// month.
func (n *Navigator) Goto(key core.MonthKey) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.goTo(key)
}

// Ledger returns a copy of the working ledger.
func (n *Navigator) Ledger() *ledger.MonthlyLedger {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.working.Clone()
}

func (n *Navigator) Expenses() ledger.Expenses {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.expenses.Clone()
}

func (n *Navigator) SetEntry(c ledger.Category, key string, value decimal.Decimal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.working.SetEntry(c, key, value)
}

func (n *Navigator) SetDeductionAmount(key string, amount decimal.Decimal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.working.SetDeductionAmount(key, amount)
}

func (n *Navigator) SetDeductionDescription(key, description string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.working.SetDeductionDescription(key, description)
}

// ApplyProfile copies the configured pay profile into the working ledger.
// With reset, business and other income are cleared as well.
func (n *Navigator) ApplyProfile(reset bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if reset {
		return n.working.ResetIncome(n.profile)
	}
	return n.working.ApplyProfile(n.profile)
}

func (n *Navigator) Profile() ledger.PayProfile {
	n.mu.Lock()
	defer n.mu.Unlock()
	return ledger.PayProfile{PrimarySalary: n.profile.PrimarySalary, Deductions: n.profile.Deductions.Clone()}
}

// SetProfile replaces the pay profile used by later ApplyProfile calls.
func (n *Navigator) SetProfile(p ledger.PayProfile) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.profile = ledger.PayProfile{PrimarySalary: p.PrimarySalary, Deductions: p.Deductions.Clone()}
}

func (n *Navigator) AddExpense(category, name string, amount decimal.Decimal) (ledger.CustomExpense, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.expenses.Add(n.now(), category, name, amount)
}

func (n *Navigator) UpdateExpense(id int64, field, value string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.expenses.Update(id, field, value)
}

func (n *Navigator) RemoveExpense(id int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.expenses.Remove(id)
}

// Save copies the working month into the store.
func (n *Navigator) Save(ctx context.Context) (snapshot.MonthSnapshot, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	snap, err := n.store.Save(ctx, n.cursor, n.working, n.expenses)
	if err != nil {
		return snapshot.MonthSnapshot{}, fmt.Errorf("save %s: %w", n.cursor, err)
	}
	n.saved = true
	return snap, nil
}

// Delete removes a saved month. Deleting the month under the cursor moves the
// cursor back to the real present month.
func (n *Navigator) Delete(ctx context.Context, key core.MonthKey) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if key == n.cursor {
		n.goTo(core.CurrentMonthKey(n.now()))
	}
	return nil
}

// Import replaces every saved month and reloads the cursor month.
func (n *Navigator) Import(ctx context.Context, data []byte) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	count, err := n.store.ImportAll(ctx, data)
	if err != nil {
		return 0, err
	}
	n.goTo(n.cursor)
	return count, nil
}

// Totals recomputes the working month's figures.
func (n *Navigator) Totals() calc.Totals {
	n.mu.Lock()
	defer n.mu.Unlock()
	return calc.Compute(n.working, n.expenses)
}

// Bundle assembles the report bundle of the working month.
func (n *Navigator) Bundle() report.Bundle {
	n.mu.Lock()
	defer n.mu.Unlock()
	return report.Assemble(n.cursor, n.working, n.expenses)
}

// SavedBundle assembles the bundle of a stored month without moving the
// cursor.
func (n *Navigator) SavedBundle(key core.MonthKey) (report.Bundle, error) {
	snap, err := n.store.Load(key)
	if err != nil {
		return report.Bundle{}, err
	}
	return report.Assemble(key, snap.Ledger, snap.CustomExpenses), nil
}

// Archive summarises every saved month in stored order.
func (n *Navigator) Archive() []report.MonthSummary {
	return report.Summaries(n.store.List())
}

// IsNotFound reports whether err means a month has no snapshot.
func IsNotFound(err error) bool {
	return errors.Is(err, snapshot.ErrNotFound)
}

// Export returns the backup document of every saved month.
func (n *Navigator) Export() snapshot.Document {
	return n.store.ExportAll()
}

func (n *Navigator) Variant() ledger.Variant {
	return n.store.Variant()
}
