package core

import (
	"encoding/json"
	"fmt"
	"time"
)

const monthLayout = "2006-01"

// MonthKey identifies one calendar month. Its canonical text form is
// "YYYY-MM", which is also the snapshot key.
type MonthKey struct {
	Year  int
	Month time.Month
}

// ParseMonthKey parses "YYYY-MM".
func ParseMonthKey(s string) (MonthKey, error) {
	if len(s) != len(monthLayout) {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

// MustMonthKey is ParseMonthKey for literals; it panics on bad input.
func MustMonthKey(s string) MonthKey {
	k, err := ParseMonthKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// CurrentMonthKey returns the month containing now.
func CurrentMonthKey(now time.Time) MonthKey {
	return MonthKey{Year: now.Year(), Month: now.Month()}
}

// FirstDay returns midnight UTC of the first day of the month.
func (k MonthKey) FirstDay() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths shifts the key by n calendar months using date arithmetic on
// the first of the month, so year boundaries roll over correctly.
func (k MonthKey) AddMonths(n int) MonthKey {
	return CurrentMonthKey(k.FirstDay().AddDate(0, n, 0))
}

func (k MonthKey) Next() MonthKey { return k.AddMonths(1) }
func (k MonthKey) Prev() MonthKey { return k.AddMonths(-1) }

func (k MonthKey) IsZero() bool { return k.Year == 0 && k.Month == 0 }

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Label is the long display form, e.g. "January 2024".
func (k MonthKey) Label() string {
	return k.FirstDay().Format("January 2006")
}

func (k MonthKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *MonthKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMonthKey, string(data))
	}
	parsed, err := ParseMonthKey(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
