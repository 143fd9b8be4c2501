// Package transport defines the wire DTOs for the conversation module.
package transport

import (
	"time"

	"novaestudio_backend/internal/conversation/domain"
	"novaestudio_backend/internal/conversation/repository"
	"novaestudio_backend/internal/conversation/service"
)

// ChatRequest is the public chat endpoint payload.
type ChatRequest struct {
	Message        string       `json:"message" validate:"required,max=1200"`
	ConversationID string       `json:"conversation_id"`
	Metadata       ChatMetadata `json:"metadata"`
}

// ChatMetadata carries optional widget context.
type ChatMetadata struct {
	Consent bool `json:"consent"`
}

// ChatResponse is the public chat endpoint result.
type ChatResponse struct {
	Reply           string       `json:"reply"`
	ConversationID  string       `json:"conversation_id"`
	Status          string       `json:"status"`
	LeadScore       int          `json:"lead_score"`
	ExtractedBrief  domain.Brief `json:"extracted_brief"`
	NextActions     []string     `json:"next_actions"`
	WhatsAppSummary string       `json:"whatsapp_summary"`
}

// NewChatResponse maps a pipeline result to the wire format.
func NewChatResponse(result *service.ChatResult) ChatResponse {
	nextActions := result.NextActions
	if nextActions == nil {
		nextActions = []string{}
	}
	return ChatResponse{
		Reply:           result.Reply,
		ConversationID:  result.ConversationID,
		Status:          string(result.Status),
		LeadScore:       result.LeadScore,
		ExtractedBrief:  result.Brief,
		NextActions:     nextActions,
		WhatsAppSummary: result.WhatsAppSummary,
	}
}

// ConversationSummary is one row in the admin listing.
type ConversationSummary struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	LeadScore     int        `json:"lead_score"`
	LastMessage   string     `json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at"`
	LeadNotified  bool       `json:"lead_notified"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewConversationSummary maps a stored conversation to the listing row.
func NewConversationSummary(conv repository.Conversation) ConversationSummary {
	return ConversationSummary{
		ID:            conv.ID,
		Status:        string(conv.Status),
		LeadScore:     conv.LeadScore,
		LastMessage:   conv.LastMessage,
		LastMessageAt: conv.LastMessageAt,
		LeadNotified:  conv.LeadNotified,
		CreatedAt:     conv.CreatedAt,
		UpdatedAt:     conv.UpdatedAt,
	}
}

// MessageDTO is one transcript line.
type MessageDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationDetail is the admin detail view.
type ConversationDetail struct {
	Conversation ConversationSummary `json:"conversation"`
	Brief        domain.Brief        `json:"extracted_brief"`
	Intent       bool                `json:"intent"`
	Messages     []MessageDTO        `json:"messages"`
}

// NewConversationDetail maps a detail aggregate to the wire format.
func NewConversationDetail(detail *service.Detail) ConversationDetail {
	messages := make([]MessageDTO, 0, len(detail.Messages))
	for _, m := range detail.Messages {
		messages = append(messages, MessageDTO{
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return ConversationDetail{
		Conversation: NewConversationSummary(detail.Conversation),
		Brief:        detail.Conversation.Brief,
		Intent:       detail.Conversation.Intent,
		Messages:     messages,
	}
}

// DecisionResponse confirms an admin decision.
type DecisionResponse struct {
	OK     bool   `json:"ok"`
	Status string `json:"status"`
}

// ExportResponse carries the approved brief hand-off.
type ExportResponse struct {
	OK       bool         `json:"ok"`
	Brief    domain.Brief `json:"brief"`
	Markdown string       `json:"markdown"`
}
