// Package audit records successful roster changes to external sinks. The
// trail is write-only: the directory is never rebuilt from it.
package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventSignup     EventType = "signup"
	EventUnregister EventType = "unregister"
)

// Event is one roster change.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Activity   string    `json:"activity"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEvent stamps a fresh event with a random ID and the current UTC time.
func NewEvent(eventType EventType, activity, email string) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		Activity:   activity,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
}

// Sink receives roster change events.
type Sink interface {
	Record(ctx context.Context, event Event) error
}

// NopSink discards events.
type NopSink struct{}

func (NopSink) Record(context.Context, Event) error { return nil }

// MultiSink fans an event out to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Record(ctx context.Context, event Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
