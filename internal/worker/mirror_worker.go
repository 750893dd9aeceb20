// Package worker keeps the spreadsheet mirror in step with the saved months.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/sheets"
	"fintrack/internal/snapshot"
)

// MirrorWorker re-reads the persisted snapshot list on every event, so an
// event only says which month to look at, never what it contains.
type MirrorWorker struct {
	persister snapshot.Persister
	variant   ledger.Variant
	mirror    sheets.Mirror
	logger    *log.Logger
}

func NewMirrorWorker(p snapshot.Persister, variant ledger.Variant, mirror sheets.Mirror, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &MirrorWorker{
		persister: p,
		variant:   variant,
		mirror:    mirror,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

func (w *MirrorWorker) open(ctx context.Context) (*snapshot.Store, error) {
	store, err := snapshot.Open(ctx, w.persister, w.variant)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return store, nil
}

// HandleEvent applies one month event to the mirror.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev amqp.MonthEvent) error {
	w.logger.InfoContext(ctx, "Processing month event",
		log.FieldEventID, ev.ID,
		log.FieldEventType, string(ev.Type),
		log.FieldMonth, ev.MonthYear)

	if ev.Type == amqp.EventImported {
		return w.ResyncAll(ctx)
	}

	month, err := ev.Month()
	if err != nil {
		return err
	}
	store, err := w.open(ctx)
	if err != nil {
		return err
	}
	// Events can arrive late; the store decides, not the event type.
	return w.syncMonth(ctx, store, month)
}

func (w *MirrorWorker) syncMonth(ctx context.Context, store *snapshot.Store, month core.MonthKey) error {
	snap, err := store.Load(month)
	if errors.Is(err, snapshot.ErrNotFound) {
		if err := w.mirror.DeleteMonth(ctx, month); err != nil {
			return fmt.Errorf("clear %s: %w", month, err)
		}
		w.logger.InfoContext(ctx, "Cleared mirrored month", log.FieldMonth, month.String())
		return nil
	}
	if err != nil {
		return err
	}

	row := sheets.RowFromSummary(report.SummarizeSnapshot(snap))
	if err := w.mirror.UpsertMonth(ctx, row); err != nil {
		return fmt.Errorf("mirror %s: %w", month, err)
	}
	w.logger.InfoContext(ctx, "Mirrored month", log.FieldMonth, month.String())
	return nil
}

// ResyncAll upserts every saved month and clears rows of months that are no
// longer saved.
func (w *MirrorWorker) ResyncAll(ctx context.Context) error {
	store, err := w.open(ctx)
	if err != nil {
		return err
	}

	saved := make(map[core.MonthKey]bool)
	for _, snap := range store.List() {
		saved[snap.MonthYear] = true
		row := sheets.RowFromSummary(report.SummarizeSnapshot(snap))
		if err := w.mirror.UpsertMonth(ctx, row); err != nil {
			return fmt.Errorf("mirror %s: %w", snap.MonthYear, err)
		}
	}

	mirrored, err := w.mirror.ListMonths(ctx)
	if err != nil {
		return fmt.Errorf("list mirrored months: %w", err)
	}
	cleared := 0
	for _, m := range mirrored {
		if saved[m] {
			continue
		}
		if err := w.mirror.DeleteMonth(ctx, m); err != nil {
			return fmt.Errorf("clear %s: %w", m, err)
		}
		cleared++
	}

	w.logger.InfoContext(ctx, "Resync completed",
		log.FieldOperation, log.OpResync,
		log.FieldMonths, len(saved),
		"cleared", cleared)
	return nil
}

// RunResync calls ResyncAll immediately and then every interval until ctx
// is done. Failures are logged and retried on the next tick.
func (w *MirrorWorker) RunResync(ctx context.Context, interval time.Duration) error {
	if err := w.ResyncAll(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Resync failed", log.FieldError, err)
	}
	if interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ResyncAll(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Resync failed", log.FieldError, err)
			}
		}
	}
}
