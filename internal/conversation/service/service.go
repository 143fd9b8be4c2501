// Package service orchestrates the lead-qualification chat pipeline:
// validation, completion, brief merging, scoring, status transitions and the
// owner-notification gate.
package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"novaestudio_backend/internal/conversation/agent"
	"novaestudio_backend/internal/conversation/domain"
	"novaestudio_backend/internal/conversation/repository"
	"novaestudio_backend/internal/events"
	"novaestudio_backend/platform/apperr"
	"novaestudio_backend/platform/logger"
	"novaestudio_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	maxMessageLen = 1200
	historyLimit  = 10
	// NotifyScore is the final-score threshold that triggers an owner alert
	// regardless of status.
	NotifyScore = 70
)

// ChatRequest is one inbound visitor message.
type ChatRequest struct {
	ConversationID string
	Message        string
	Consent        bool
	IPHash         *string
}

// ChatResult is the pipeline output returned to the widget.
type ChatResult struct {
	Reply           string
	ConversationID  string
	Status          domain.Status
	LeadScore       int
	Brief           domain.Brief
	NextActions     []string
	WhatsAppSummary string
}

// Service implements the conversation operations.
type Service struct {
	repo    repository.ConversationsRepository
	adapter *agent.Adapter
	bus     events.Bus
	log     *logger.Logger
}

// New creates a conversation service.
func New(repo repository.ConversationsRepository, adapter *agent.Adapter, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		adapter: adapter,
		bus:     bus,
		log:     log,
	}
}

// ProcessMessage runs one turn of the qualification pipeline.
func (s *Service) ProcessMessage(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	message := strings.TrimSpace(req.Message)
	if n := utf8.RuneCountInString(message); n < 1 || n > maxMessageLen {
		return nil, apperr.Validation("Mensaje inválido.")
	}

	conversationID := strings.TrimSpace(req.ConversationID)
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	cleanMessage := sanitize.Message(message)
	now := time.Now()

	conv, err := s.repo.Get(ctx, conversationID)
	if err != nil {
		if apperr.GetKind(err) != apperr.KindNotFound {
			return nil, apperr.Wrap(apperr.KindInternal, "Error de base de datos.", err)
		}
		conv = &repository.Conversation{
			ID:            conversationID,
			Status:        domain.StatusNew,
			LastMessage:   cleanMessage,
			LastMessageAt: &now,
			IPHash:        req.IPHash,
			Consent:       req.Consent,
		}
		if err := s.repo.Create(ctx, conv); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "Error de base de datos.", err)
		}
	}

	if conv.Status == domain.StatusPendingOwnerApproval {
		return s.processPending(ctx, conv, cleanMessage, now)
	}

	history, err := s.repo.ListRecentMessages(ctx, conversationID, historyLimit)
	if err != nil {
		s.log.DatabaseError("list recent messages", err)
		history = nil
	}

	turns := make([]agent.Turn, 0, len(history))
	for _, m := range history {
		if m.Role != "user" && m.Role != "assistant" {
			continue
		}
		turns = append(turns, agent.Turn{Role: m.Role, Content: m.Content})
	}

	completion := s.adapter.Complete(ctx, conversationID, agent.Request{
		Status:  conv.Status,
		Brief:   conv.Brief,
		History: turns,
		Message: cleanMessage,
	})

	intent := domain.DetectIntent(message) || completion.Intent
	mergedBrief := domain.MergeBrief(conv.Brief, completion.ExtractedBrief)
	heuristic := domain.Score(conv.LeadScore, message, intent, mergedBrief)
	finalScore := domain.ReconcileScore(heuristic, completion.LeadScore)
	nextStatus := domain.NextStatus(conv.Status, intent, mergedBrief.Ready(), heuristic)

	reply := completion.Reply
	if nextStatus == domain.StatusPendingOwnerApproval {
		reply = domain.ReplyHandOff
	}

	whatsappSummary := completion.WhatsAppSummary
	if whatsappSummary == "" {
		whatsappSummary = mergedBrief.WhatsAppSummary()
	}

	s.appendTurn(ctx, conversationID, cleanMessage, reply)

	previousStatus := conv.Status
	wasNotified := conv.LeadNotified

	conv.Status = nextStatus
	conv.LeadScore = finalScore
	conv.Brief = mergedBrief
	conv.Intent = intent
	conv.LastMessage = cleanMessage
	conv.LastMessageAt = &now
	conv.Consent = conv.Consent || req.Consent
	if err := s.repo.Upsert(ctx, conv); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Error de base de datos.", err)
	}

	if shouldNotify(wasNotified, intent, finalScore, previousStatus, nextStatus) {
		s.dispatchOwnerAlert(ctx, conv)
	}

	return &ChatResult{
		Reply:           reply,
		ConversationID:  conversationID,
		Status:          nextStatus,
		LeadScore:       finalScore,
		Brief:           mergedBrief,
		NextActions:     completion.NextActions,
		WhatsAppSummary: whatsappSummary,
	}, nil
}

// processPending handles messages that arrive while the conversation waits on
// the owner. The completion provider is skipped entirely; the visitor gets a
// fixed holding reply and the brief stays frozen.
func (s *Service) processPending(ctx context.Context, conv *repository.Conversation, cleanMessage string, now time.Time) (*ChatResult, error) {
	conv.Intent = conv.Intent || domain.DetectIntent(cleanMessage)
	conv.LastMessage = cleanMessage
	conv.LastMessageAt = &now

	s.appendTurn(ctx, conv.ID, cleanMessage, domain.ReplyUnderReview)

	if err := s.repo.Upsert(ctx, conv); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Error de base de datos.", err)
	}

	return &ChatResult{
		Reply:           domain.ReplyUnderReview,
		ConversationID:  conv.ID,
		Status:          conv.Status,
		LeadScore:       conv.LeadScore,
		Brief:           conv.Brief,
		NextActions:     []string{},
		WhatsAppSummary: conv.Brief.WhatsAppSummary(),
	}, nil
}

// appendTurn persists the user message and the assistant reply. Write errors
// are logged, not surfaced: losing a transcript line must not break the chat.
func (s *Service) appendTurn(ctx context.Context, conversationID, userMessage, reply string) {
	if err := s.repo.InsertMessage(ctx, conversationID, "user", userMessage); err != nil {
		s.log.DatabaseError("insert user message", err)
	}
	if err := s.repo.InsertMessage(ctx, conversationID, "assistant", sanitize.Message(reply)); err != nil {
		s.log.DatabaseError("insert assistant message", err)
	}
}

// shouldNotify is the owner-alert gate. A conversation alerts at most once:
// on explicit intent, a hot score, reaching a hand-off status, or its very
// first message.
func shouldNotify(alreadyNotified, intent bool, finalScore int, previous, next domain.Status) bool {
	if alreadyNotified {
		return false
	}
	return intent ||
		finalScore >= NotifyScore ||
		next == domain.StatusBriefReady ||
		next == domain.StatusPendingOwnerApproval ||
		previous == domain.StatusNew
}

// dispatchOwnerAlert publishes the qualification event and flips the
// notified flag. The flag only flips after the handlers have run, and the
// conditional update makes the flip race-safe.
func (s *Service) dispatchOwnerAlert(ctx context.Context, conv *repository.Conversation) {
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

	flipped, err := s.repo.MarkLeadNotified(ctx, conv.ID)
	if err != nil {
		s.log.DatabaseError("mark lead notified", err)
		return
	}
	if flipped {
		conv.LeadNotified = true
	}
}
