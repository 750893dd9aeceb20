// Package services puts change notification around the month navigator.
package services

import (
	"context"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/navigator"
	"fintrack/internal/snapshot"
)

// Publisher sends month events. *amqp.Client satisfies it.
type Publisher interface {
	PublishMonthEvent(ctx context.Context, ev amqp.MonthEvent) error
}

// Tracker is the navigator plus event publication after every successful
// save, delete and import. A nil publisher disables events.
type Tracker struct {
	*navigator.Navigator

	publisher Publisher
	logger    *log.Logger
	events    *log.StructuredLogger
}

func NewTracker(nav *navigator.Navigator, publisher Publisher, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentLedger)
	return &Tracker{
		Navigator: nav,
		publisher: publisher,
		logger:    logger,
		events:    log.NewStructuredLogger(logger),
	}
}

func (t *Tracker) Save(ctx context.Context) (snapshot.MonthSnapshot, error) {
	snap, err := t.Navigator.Save(ctx)
	if err != nil {
		return snap, err
	}
	t.events.LogMonthChange(ctx, log.OpSave, snap.MonthYear.String(), nil)
	t.publish(ctx, amqp.NewMonthEvent(amqp.EventSaved, snap.MonthYear))
	return snap, nil
}

func (t *Tracker) Delete(ctx context.Context, key core.MonthKey) error {
	if err := t.Navigator.Delete(ctx, key); err != nil {
		return err
	}
	t.events.LogMonthChange(ctx, log.OpDelete, key.String(), nil)
	t.publish(ctx, amqp.NewMonthEvent(amqp.EventDeleted, key))
	return nil
}

func (t *Tracker) Import(ctx context.Context, data []byte) (int, error) {
	n, err := t.Navigator.Import(ctx, data)
	if err != nil {
		return 0, err
	}
	t.events.LogMonthChange(ctx, log.OpImport, "", log.NewFields().WithMonths(n))
	t.publish(ctx, amqp.NewImportEvent(n))
	return n, nil
}

// publish never fails the caller: the change is already persisted.
func (t *Tracker) publish(ctx context.Context, ev amqp.MonthEvent) {
	if t.publisher == nil {
		t.logger.DebugContext(ctx, "No publisher configured, skipping month event",
			log.FieldEventType, string(ev.Type))
		return
	}
	if err := t.publisher.PublishMonthEvent(ctx, ev); err != nil {
		fields := log.NewFields().WithEvent(ev.ID, string(ev.Type))
		if ev.MonthYear != "" {
			fields.WithMonth(ev.MonthYear)
		}
		t.events.LogError(ctx, "Failed to publish month event", err, log.OpPublish, fields)
	}
}
