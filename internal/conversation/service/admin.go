package service

import (
	"context"
	"strings"

	"novaestudio_backend/internal/conversation/domain"
	"novaestudio_backend/internal/conversation/repository"
	"novaestudio_backend/internal/events"
	"novaestudio_backend/platform/apperr"
)

const adminListLimit = 200

// Detail is a conversation with its full transcript.
type Detail struct {
	Conversation repository.Conversation
	Messages     []repository.Message
}

// Export is the approved-brief hand-off package.
type Export struct {
	Brief    domain.Brief
	Markdown string
}

// List returns conversations for the admin panel, newest activity first.
func (s *Service) List(ctx context.Context) ([]repository.Conversation, error) {
	return s.repo.List(ctx, adminListLimit)
}

// GetDetail returns one conversation with its transcript.
func (s *Service) GetDetail(ctx context.Context, conversationID string) (*Detail, error) {
	conv, err := s.repo.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	messages, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return &Detail{Conversation: *conv, Messages: messages}, nil
}

// Decide records the owner's approval or rejection.
func (s *Service) Decide(ctx context.Context, conversationID string, approve bool) (domain.Status, error) {
	status := domain.StatusRejected
	if approve {
		status = domain.StatusApproved
	}

	if err := s.repo.UpdateStatus(ctx, conversationID, status); err != nil {
		return "", err
	}

	s.bus.Publish(ctx, events.ConversationDecided{
		BaseEvent:      events.NewBaseEvent(),
		ConversationID: conversationID,
		Status:         string(status),
	})
	return status, nil
}

// Delete removes a conversation and its transcript.
func (s *Service) Delete(ctx context.Context, conversationID string) error {
	return s.repo.Delete(ctx, conversationID)
}

// ExportBrief renders the approved brief as markdown for hand-off. Only
// approved conversations may be exported.
func (s *Service) ExportBrief(ctx context.Context, conversationID string) (*Export, error) {
	conv, err := s.repo.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.Status != domain.StatusApproved {
		return nil, apperr.Forbidden("Solo disponible si está APPROVED.")
	}

	messages, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	return &Export{
		Brief:    conv.Brief,
		Markdown: buildMarkdown(conv.Brief, messages),
	}, nil
}

// Notify re-dispatches the owner alert for a conversation regardless of the
// notified flag. Used manually from the admin panel.
func (s *Service) Notify(ctx context.Context, conversationID string) error {
	conv, err := s.repo.Get(ctx, conversationID)
	if err != nil {
		return err
	}

	event := events.LeadQualified{
		BaseEvent:      events.NewBaseEvent(),
		ConversationID: conv.ID,
		Status:         string(conv.Status),
		LeadScore:      conv.LeadScore,
		Intent:         conv.Intent,
		Brief:          conv.Brief,
		LastMessage:    conv.LastMessage,
	}
	if err := s.bus.PublishSync(ctx, event); err != nil {
		s.log.NotificationEvent("bus", conv.ID, err)
	}

	if _, err := s.repo.MarkLeadNotified(ctx, conv.ID); err != nil {
		s.log.DatabaseError("mark lead notified", err)
	}
	return nil
}

const transcriptTail = 10

func buildMarkdown(brief domain.Brief, messages []repository.Message) string {
	sections := "sin definir"
	if len(brief.Sections) > 0 {
		sections = strings.Join(brief.Sections, ", ")
	}

	lines := []string{
		"# Brief NovaEstudioWeb",
		"",
		"- Tipo de web: " + valueOr(brief.SiteType),
		"- Objetivo: " + valueOr(brief.Goal),
		"- Secciones: " + sections,
		"- Referencias: " + valueOr(brief.References),
		"- Contenidos: " + valueOr(brief.Contents),
		"- Idiomas: " + valueOr(brief.Languages),
		"- Integraciones: " + valueOr(brief.Integrations),
		"- Plazo: " + valueOr(brief.Timeline),
		"- Presupuesto: " + valueOr(brief.Budget),
		"",
		"## Conversación (resumen)",
	}

	tail := messages
	if len(tail) > transcriptTail {
		tail = tail[len(tail)-transcriptTail:]
	}
	for _, m := range tail {
		lines = append(lines, "- "+m.Role+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

func valueOr(s string) string {
	if strings.TrimSpace(s) == "" {
		return "sin definir"
	}
	return s
}
