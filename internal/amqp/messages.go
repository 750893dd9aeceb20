package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// EventType says what happened to the saved months.
type EventType string

const (
	EventSaved    EventType = "saved"
	EventDeleted  EventType = "deleted"
	EventImported EventType = "imported"
)

// MonthEvent announces a change to the snapshot store. It carries no ledger
// data; consumers re-read the store.
type MonthEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	MonthYear string    `json:"monthYear,omitempty"`
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMonthEvent(t EventType, month core.MonthKey) MonthEvent {
	return MonthEvent{
		ID:        uuid.NewString(),
		Type:      t,
		MonthYear: month.String(),
		Timestamp: time.Now().UTC(),
	}
}

// NewImportEvent reports that the whole list was replaced by count months.
func NewImportEvent(count int) MonthEvent {
	return MonthEvent{
		ID:        uuid.NewString(),
		Type:      EventImported,
		Count:     count,
		Timestamp: time.Now().UTC(),
	}
}

// Month parses MonthYear.
func (m MonthEvent) Month() (core.MonthKey, error) {
	return core.ParseMonthKey(m.MonthYear)
}

func (m MonthEvent) Validate() error {
	if _, err := uuid.Parse(m.ID); err != nil {
		return fmt.Errorf("invalid event id %q: %w", m.ID, err)
	}
	switch m.Type {
	case EventSaved, EventDeleted:
		if _, err := m.Month(); err != nil {
			return err
		}
	case EventImported:
	default:
		return fmt.Errorf("unknown event type %q", m.Type)
	}
	return nil
}

func (m MonthEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MonthEventFromJSON decodes and validates a message body.
func MonthEventFromJSON(data []byte) (MonthEvent, error) {
	var msg MonthEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return MonthEvent{}, err
	}
	if err := msg.Validate(); err != nil {
		return MonthEvent{}, err
	}
	return msg, nil
}
