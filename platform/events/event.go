// Package events provides the in-process event bus the modules communicate
// over. The conversation pipeline publishes qualification and decision events
// here and the notification module consumes them, so neither imports the
// other.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event carried on the bus.
type Event interface {
	// EventName returns a unique identifier for the event type,
	// e.g. "conversations.lead.qualified".
	EventName() string
	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time
}

// BaseEvent carries the timestamp shared by all events. Embed it and
// implement EventName on the concrete type.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent creates a base event stamped with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler processes events of a specific type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes domain events to subscribed handlers.
type Bus interface {
	// Publish dispatches the event to all handlers asynchronously.
	// Handler errors are logged, never returned.
	Publish(ctx context.Context, event Event)

	// PublishSync dispatches the event and waits for every handler.
	// The owner-alert gate uses this so the notified flag only flips
	// after the alert was attempted.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for the event name returned by
	// Event.EventName().
	Subscribe(eventName string, handler Handler)
}
