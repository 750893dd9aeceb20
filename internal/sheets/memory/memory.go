// Package memory is an in-process sheets mirror.
package memory

import (
	"context"
	"sort"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows map[core.MonthKey]sheets.Row
}

var _ sheets.Mirror = (*Store)(nil)

func New() *Store {
	return &Store{rows: make(map[core.MonthKey]sheets.Row)}
}

func (s *Store) UpsertMonth(_ context.Context, r sheets.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[r.Month] = r
	return nil
}

func (s *Store) DeleteMonth(_ context.Context, month core.MonthKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, month)
	return nil
}

// ListMonths returns the mirrored months in ascending order.
func (s *Store) ListMonths(_ context.Context) ([]core.MonthKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.MonthKey, 0, len(s.rows))
	for k := range s.rows {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

// Row returns the mirrored row of month.
func (s *Store) Row(month core.MonthKey) (sheets.Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[month]
	return r, ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
