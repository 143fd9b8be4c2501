package events

import (
	"novaestudio_backend/internal/conversation/domain"
	platformevents "novaestudio_backend/platform/events"
)

// Re-export the platform event contracts so modules only need one import.
type (
	Event       = platformevents.Event
	BaseEvent   = platformevents.BaseEvent
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
	Bus         = platformevents.Bus
)

// NewBaseEvent creates a new base event with the current timestamp.
var NewBaseEvent = platformevents.NewBaseEvent

// LeadQualified is published when a conversation crosses the notification
// gate and the studio owner should be alerted.
type LeadQualified struct {
	BaseEvent
	ConversationID string
	Status         string
	LeadScore      int
	Intent         bool
	Brief          domain.Brief
	LastMessage    string
}

// EventName returns the unique event identifier.
func (e LeadQualified) EventName() string { return "conversations.lead.qualified" }

// ConversationDecided is published when an admin approves or rejects a
// conversation.
type ConversationDecided struct {
	BaseEvent
	ConversationID string
	Status         string
}

// EventName returns the unique event identifier.
func (e ConversationDecided) EventName() string { return "conversations.decision" }
