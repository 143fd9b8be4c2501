// Package repository provides Postgres persistence for conversations.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"novaestudio_backend/internal/conversation/domain"
	"novaestudio_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const conversationNotFoundMsg = "conversation not found"

// Repository is the pgx-backed ConversationsRepository.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new conversations repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const conversationColumns = `
	id, status, lead_score, extracted_brief, intent, last_message,
	last_message_at, lead_notified, ip_hash, consent, created_at, updated_at`

func scanConversation(row pgx.Row) (*Conversation, error) {
	var c Conversation
	err := row.Scan(
		&c.ID, &c.Status, &c.LeadScore, &c.Brief, &c.Intent, &c.LastMessage,
		&c.LastMessageAt, &c.LeadNotified, &c.IPHash, &c.Consent, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Get fetches a conversation by ID.
func (r *Repository) Get(ctx context.Context, id string) (*Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1`

	conv, err := scanConversation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(conversationNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}
	return conv, nil
}

// Create inserts a fresh conversation row.
func (r *Repository) Create(ctx context.Context, conv *Conversation) error {
	query := `
		INSERT INTO conversations (
			id, status, lead_score, extracted_brief, intent, last_message,
			last_message_at, lead_notified, ip_hash, consent
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if _, err := r.pool.Exec(ctx, query,
		conv.ID, conv.Status, conv.LeadScore, conv.Brief, conv.Intent,
		conv.LastMessage, conv.LastMessageAt, conv.LeadNotified, conv.IPHash, conv.Consent,
	); err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

// Upsert writes the post-message state of a conversation.
func (r *Repository) Upsert(ctx context.Context, conv *Conversation) error {
	query := `
		INSERT INTO conversations (
			id, status, lead_score, extracted_brief, intent, last_message,
			last_message_at, lead_notified, ip_hash, consent
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			lead_score = EXCLUDED.lead_score,
			extracted_brief = EXCLUDED.extracted_brief,
			intent = EXCLUDED.intent,
			last_message = EXCLUDED.last_message,
			last_message_at = EXCLUDED.last_message_at,
			consent = EXCLUDED.consent,
			updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query,
		conv.ID, conv.Status, conv.LeadScore, conv.Brief, conv.Intent,
		conv.LastMessage, conv.LastMessageAt, conv.LeadNotified, conv.IPHash, conv.Consent,
	); err != nil {
		return fmt.Errorf("failed to upsert conversation: %w", err)
	}
	return nil
}

// InsertMessage appends a message to a conversation.
func (r *Repository) InsertMessage(ctx context.Context, conversationID, role, content string) error {
	query := `INSERT INTO messages (conversation_id, role, content) VALUES ($1, $2, $3)`

	if _, err := r.pool.Exec(ctx, query, conversationID, role, content); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// ListRecentMessages returns the oldest-first tail of the conversation.
func (r *Repository) ListRecentMessages(ctx context.Context, conversationID string, limit int) ([]Message, error) {
	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM (
			SELECT id, conversation_id, role, content, created_at
			FROM messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) tail
		ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent messages: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// MarkLeadNotified flips the notified flag exactly once per conversation.
func (r *Repository) MarkLeadNotified(ctx context.Context, conversationID string) (bool, error) {
	query := `
		UPDATE conversations
		SET lead_notified = TRUE, updated_at = NOW()
		WHERE id = $1 AND lead_notified = FALSE`

	result, err := r.pool.Exec(ctx, query, conversationID)
	if err != nil {
		return false, fmt.Errorf("failed to mark lead notified: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// List returns conversations newest-activity-first for the admin panel.
func (r *Repository) List(ctx context.Context, limit int) ([]Conversation, error) {
	query := `SELECT ` + conversationColumns + `
		FROM conversations
		ORDER BY updated_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, *conv)
	}
	return conversations, rows.Err()
}

// ListMessages returns the full oldest-first transcript.
func (r *Repository) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// UpdateStatus sets the status of a conversation.
func (r *Repository) UpdateStatus(ctx context.Context, conversationID string, status domain.Status) error {
	query := `UPDATE conversations SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, conversationID, status)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(conversationNotFoundMsg)
	}
	return nil
}

// Delete removes a conversation and its messages.
func (r *Repository) Delete(ctx context.Context, conversationID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE conversation_id = $1`, conversationID); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, conversationID)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(conversationNotFoundMsg)
	}

	return tx.Commit(ctx)
}

// DeleteStaleWithoutConsent removes conversations without stored consent
// whose last activity predates the cutoff.
func (r *Repository) DeleteStaleWithoutConsent(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM messages
		WHERE conversation_id IN (
			SELECT id FROM conversations WHERE consent = FALSE AND updated_at < $1
		)`, cutoff); err != nil {
		return 0, fmt.Errorf("failed to delete stale messages: %w", err)
	}

	result, err := tx.Exec(ctx,
		`DELETE FROM conversations WHERE consent = FALSE AND updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale conversations: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit retention sweep: %w", err)
	}
	return result.RowsAffected(), nil
}

func collectMessages(rows pgx.Rows) ([]Message, error) {
	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
