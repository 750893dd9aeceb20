package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// Persister is durable local storage for the serialized month list. Load
// returns nil data when nothing has been stored yet.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

type Store struct {
	mu      sync.Mutex
	months  []MonthSnapshot
	persist Persister
	variant ledger.Variant
	now     func() time.Time
}

type Option func(*Store)

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open reads the persisted list. Months saved under another ledger variant
// are rejected rather than reinterpreted.
func Open(ctx context.Context, p Persister, variant ledger.Variant, opts ...Option) (*Store, error) {
	s := &Store{persist: p, variant: variant, now: time.Now}
	for _, o := range opts {
		o(s)
	}

	data, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	if len(data) > 0 {
		var months []MonthSnapshot
		if err := json.Unmarshal(data, &months); err != nil {
			return nil, fmt.Errorf("decode snapshots: %w", err)
		}
		if err := validate(months, variant); err != nil {
			return nil, err
		}
		s.months = months
	}
	return s, nil
}

func (s *Store) Variant() ledger.Variant { return s.variant }

// Load returns a copy of the snapshot for key, or ErrNotFound.
func (s *Store) Load(key core.MonthKey) (MonthSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(key)
	if i < 0 {
		return MonthSnapshot{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return s.months[i].Clone(), nil
}

// List returns copies of every snapshot in stored order.
func (s *Store) List() []MonthSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.months)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.months)
}

// Save replaces the snapshot for key, or appends one if the month is new.
// An existing snapshot keeps its position in the list.
func (s *Store) Save(ctx context.Context, key core.MonthKey, l *ledger.MonthlyLedger, expenses ledger.Expenses) (MonthSnapshot, error) {
	if l == nil {
		return MonthSnapshot{}, errors.New("save snapshot: nil ledger")
	}
	if l.Variant != s.variant {
		return MonthSnapshot{}, fmt.Errorf("%w: ledger is %s, store is %s", ErrVariantMismatch, l.Variant, s.variant)
	}
	snap := MonthSnapshot{
		MonthYear:      key,
		Ledger:         l.Clone(),
		CustomExpenses: expenses.Clone(),
		Timestamp:      s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := append([]MonthSnapshot(nil), s.months...)
	if i := s.index(key); i >= 0 {
		next[i] = snap
	} else {
		next = append(next, snap)
	}
	if err := s.commit(ctx, next); err != nil {
		return MonthSnapshot{}, err
	}
	return snap.Clone(), nil
}

// Delete removes the snapshot for key.
func (s *Store) Delete(ctx context.Context, key core.MonthKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(key)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	next := make([]MonthSnapshot, 0, len(s.months)-1)
	next = append(next, s.months[:i]...)
	next = append(next, s.months[i+1:]...)
	return s.commit(ctx, next)
}

// ExportAll captures every snapshot as a backup document.
func (s *Store) ExportAll() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Document{
		SavedMonths: cloneAll(s.months),
		ExportDate:  s.now().UTC(),
		Version:     DocumentVersion,
	}
}

// ImportAll replaces the whole list with the months of a backup document.
// Nothing changes unless the document decodes, validates and persists.
func (s *Store) ImportAll(ctx context.Context, data []byte) (int, error) {
	months, err := DecodeDocument(data)
	if err != nil {
		return 0, err
	}
	if err := validate(months, s.variant); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedImport, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.commit(ctx, months); err != nil {
		return 0, err
	}
	return len(months), nil
}

// commit persists next and only then swaps it in. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []MonthSnapshot) error {
	if next == nil {
		next = []MonthSnapshot{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode snapshots: %w", err)
	}
	if err := s.persist.Save(ctx, data); err != nil {
		return fmt.Errorf("persist snapshots: %w", err)
	}
	s.months = next
	return nil
}

func (s *Store) index(key core.MonthKey) int {
	for i, m := range s.months {
		if m.MonthYear == key {
			return i
		}
	}
	return -1
}
