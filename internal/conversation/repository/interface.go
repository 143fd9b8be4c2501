package repository

import (
	"context"
	"time"

	"novaestudio_backend/internal/conversation/domain"
)

// Conversation is the database model for a qualification conversation.
type Conversation struct {
	ID            string        `db:"id"`
	Status        domain.Status `db:"status"`
	LeadScore     int           `db:"lead_score"`
	Brief         domain.Brief  `db:"extracted_brief"`
	Intent        bool          `db:"intent"`
	LastMessage   string        `db:"last_message"`
	LastMessageAt *time.Time    `db:"last_message_at"`
	LeadNotified  bool          `db:"lead_notified"`
	IPHash        *string       `db:"ip_hash"`
	Consent       bool          `db:"consent"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// Message is one stored chat message.
type Message struct {
	ID             int64     `db:"id"`
	ConversationID string    `db:"conversation_id"`
	Role           string    `db:"role"`
	Content        string    `db:"content"`
	CreatedAt      time.Time `db:"created_at"`
}

// ConversationsRepository provides persistence for conversations and their
// messages.
type ConversationsRepository interface {
	// Get fetches a conversation by ID. Returns apperr.NotFound if missing.
	Get(ctx context.Context, id string) (*Conversation, error)
	// Create inserts a fresh conversation row.
	Create(ctx context.Context, conv *Conversation) error
	// Upsert writes the post-message state of a conversation.
	Upsert(ctx context.Context, conv *Conversation) error
	// InsertMessage appends a message to a conversation.
	InsertMessage(ctx context.Context, conversationID, role, content string) error
	// ListRecentMessages returns the oldest-first tail of the conversation,
	// capped at limit, for use as completion context.
	ListRecentMessages(ctx context.Context, conversationID string, limit int) ([]Message, error)
	// MarkLeadNotified flips the notified flag. Returns true only for the
	// call that actually flipped it, so the owner is alerted at most once.
	MarkLeadNotified(ctx context.Context, conversationID string) (bool, error)
	// List returns conversations newest-activity-first for the admin panel.
	List(ctx context.Context, limit int) ([]Conversation, error)
	// ListMessages returns the full oldest-first transcript.
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)
	// UpdateStatus sets the status of a conversation.
	UpdateStatus(ctx context.Context, conversationID string, status domain.Status) error
	// Delete removes a conversation and its messages.
	Delete(ctx context.Context, conversationID string) error
	// DeleteStaleWithoutConsent removes conversations without stored consent
	// whose last activity predates the cutoff. Returns the number removed.
	DeleteStaleWithoutConsent(ctx context.Context, cutoff time.Time) (int64, error)
}
