// Package snapshot keeps the saved months. The whole list is the unit of
// durability: every successful mutation re-serializes it through a Persister
// before returning.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// StorageKey names the persisted month list.
const StorageKey = "financial-tracker-months"

var (
	ErrNotFound        = errors.New("snapshot not found")
	ErrMalformedImport = errors.New("malformed import document")
	ErrVariantMismatch = errors.New("snapshot ledger variant does not match")
	ErrDuplicateMonth  = errors.New("duplicate month in snapshot list")
)

// MonthSnapshot is a saved copy of one month.
type MonthSnapshot struct {
	MonthYear      core.MonthKey
	Ledger         *ledger.MonthlyLedger
	CustomExpenses ledger.Expenses
	Timestamp      time.Time
}

type wireSnapshot struct {
	ID             string                `json:"id,omitempty"`
	MonthYear      string                `json:"monthYear"`
	Data           *ledger.MonthlyLedger `json:"data,omitempty"`
	Ledger         *ledger.MonthlyLedger `json:"ledger,omitempty"`
	CustomExpenses ledger.Expenses       `json:"customExpenses"`
	Timestamp      *time.Time            `json:"timestamp,omitempty"`
}

func (s MonthSnapshot) MarshalJSON() ([]byte, error) {
	ts := s.Timestamp.UTC()
	exp := s.CustomExpenses
	if exp == nil {
		exp = ledger.Expenses{}
	}
	return json.Marshal(wireSnapshot{
		ID:             s.MonthYear.String(),
		MonthYear:      s.MonthYear.String(),
		Data:           s.Ledger,
		CustomExpenses: exp,
		Timestamp:      &ts,
	})
}

func (s *MonthSnapshot) UnmarshalJSON(data []byte) error {
	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	key, err := core.ParseMonthKey(w.MonthYear)
	if err != nil {
		return err
	}
	l := w.Data
	if l == nil {
		l = w.Ledger
	}
	if l == nil {
		return fmt.Errorf("snapshot %s has no ledger data", key)
	}
	*s = MonthSnapshot{
		MonthYear:      key,
		Ledger:         l,
		CustomExpenses: w.CustomExpenses,
	}
	if s.CustomExpenses == nil {
		s.CustomExpenses = ledger.Expenses{}
	}
	if w.Timestamp != nil {
		s.Timestamp = *w.Timestamp
	}
	return nil
}

// Clone returns a deep copy.
func (s MonthSnapshot) Clone() MonthSnapshot {
	return MonthSnapshot{
		MonthYear:      s.MonthYear,
		Ledger:         s.Ledger.Clone(),
		CustomExpenses: s.CustomExpenses.Clone(),
		Timestamp:      s.Timestamp,
	}
}

// validate checks a decoded list before it replaces the store contents.
func validate(months []MonthSnapshot, variant ledger.Variant) error {
	seen := make(map[core.MonthKey]struct{}, len(months))
	for _, m := range months {
		if _, dup := seen[m.MonthYear]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateMonth, m.MonthYear)
		}
		seen[m.MonthYear] = struct{}{}
		if m.Ledger.Variant != variant {
			return fmt.Errorf("%w: %s is %s, store is %s", ErrVariantMismatch, m.MonthYear, m.Ledger.Variant, variant)
		}
	}
	return nil
}

func cloneAll(months []MonthSnapshot) []MonthSnapshot {
	out := make([]MonthSnapshot, len(months))
	for i, m := range months {
		out[i] = m.Clone()
	}
	return out
}
