package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"novaestudio_backend/internal/conversation/agent"
	"novaestudio_backend/internal/conversation/domain"
	"novaestudio_backend/internal/conversation/repository"
	"novaestudio_backend/internal/events"
	"novaestudio_backend/platform/apperr"
	"novaestudio_backend/platform/logger"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeRepo struct {
	mu            sync.Mutex
	conversations map[string]repository.Conversation
	messages      map[string][]repository.Message
	nextMessageID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		conversations: make(map[string]repository.Conversation),
		messages:      make(map[string][]repository.Message),
	}
}

func (f *fakeRepo) Get(ctx context.Context, id string) (*repository.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.conversations[id]
	if !ok {
		return nil, apperr.NotFound("conversation not found")
	}
	return &conv, nil
}

func (f *fakeRepo) Create(ctx context.Context, conv *repository.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conversations[conv.ID] = *conv
	return nil
}

func (f *fakeRepo) Upsert(ctx context.Context, conv *repository.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *conv
	if existing, ok := f.conversations[conv.ID]; ok {
		stored.LeadNotified = existing.LeadNotified
	}
	f.conversations[conv.ID] = stored
	return nil
}

func (f *fakeRepo) InsertMessage(ctx context.Context, conversationID, role, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextMessageID++
	f.messages[conversationID] = append(f.messages[conversationID], repository.Message{
		ID:             f.nextMessageID,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	})
	return nil
}

func (f *fakeRepo) ListRecentMessages(ctx context.Context, conversationID string, limit int) ([]repository.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.messages[conversationID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]repository.Message(nil), msgs...), nil
}

func (f *fakeRepo) MarkLeadNotified(ctx context.Context, conversationID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.conversations[conversationID]
	if !ok || conv.LeadNotified {
		return false, nil
	}
	conv.LeadNotified = true
	f.conversations[conversationID] = conv
	return true, nil
}

func (f *fakeRepo) List(ctx context.Context, limit int) ([]repository.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Conversation
	for _, conv := range f.conversations {
		out = append(out, conv)
	}
	return out, nil
}

func (f *fakeRepo) ListMessages(ctx context.Context, conversationID string) ([]repository.Message, error) {
	return f.ListRecentMessages(ctx, conversationID, 1<<30)
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, conversationID string, status domain.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.conversations[conversationID]
	if !ok {
		return apperr.NotFound("conversation not found")
	}
	conv.Status = status
	f.conversations[conversationID] = conv
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, conversationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.conversations[conversationID]; !ok {
		return apperr.NotFound("conversation not found")
	}
	delete(f.conversations, conversationID)
	delete(f.messages, conversationID)
	return nil
}

func (f *fakeRepo) DeleteStaleWithoutConsent(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type scriptedProvider struct {
	mu    sync.Mutex
	raw   string
	err   error
	calls int
}

func (p *scriptedProvider) Complete(ctx context.Context, req agent.Request) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.raw, p.err
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type alertRecorder struct {
	mu     sync.Mutex
	events []events.LeadQualified
}

func (r *alertRecorder) Handle(ctx context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event.(events.LeadQualified))
	return nil
}

func (r *alertRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func newTestService(provider agent.Provider) (*Service, *fakeRepo, *alertRecorder) {
	log := logger.New("development")
	repo := newFakeRepo()
	bus := events.NewInMemoryBus(log)
	recorder := &alertRecorder{}
	bus.Subscribe(events.LeadQualified{}.EventName(), recorder)

	svc := New(repo, agent.NewAdapter(provider, log), bus, log)
	return svc, repo, recorder
}

func modelJSON(reply string, score int, intent bool, brief string) string {
	return fmt.Sprintf(`{"reply": %q, "extracted_brief": %s, "lead_score": %d, "intent": %t, "next_actions": [], "whatsapp_summary": ""}`,
		reply, brief, score, intent)
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestProcessMessageFirstContact(t *testing.T) {
	provider := &scriptedProvider{raw: modelJSON("¿Qué tipo de web necesitas?", 10, false, "{}")}
	svc, repo, recorder := newTestService(provider)

	result, err := svc.ProcessMessage(context.Background(), ChatRequest{Message: "hola, busco información"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ConversationID == "" {
		t.Error("expected a generated conversation id")
	}
	if result.Status != domain.StatusQualifying {
		t.Errorf("expected QUALIFYING, got %s", result.Status)
	}
	if result.Reply != "¿Qué tipo de web necesitas?" {
		t.Errorf("unexpected reply: %q", result.Reply)
	}

	// First contact always alerts the owner, exactly once.
	if recorder.count() != 1 {
		t.Errorf("expected 1 owner alert, got %d", recorder.count())
	}
	conv, _ := repo.Get(context.Background(), result.ConversationID)
	if !conv.LeadNotified {
		t.Error("expected lead_notified flag set after alert")
	}

	msgs, _ := repo.ListMessages(context.Background(), result.ConversationID)
	if len(msgs) != 2 || msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Errorf("expected user+assistant transcript, got %+v", msgs)
	}
}

func TestProcessMessageIntentEscalates(t *testing.T) {
	provider := &scriptedProvider{raw: modelJSON("perfecto", 30, false, "{}")}
	svc, _, _ := newTestService(provider)

	result, err := svc.ProcessMessage(context.Background(), ChatRequest{Message: "quiero contratar, pasadme presupuesto"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != domain.StatusPendingOwnerApproval {
		t.Errorf("expected PENDING_OWNER_APPROVAL, got %s", result.Status)
	}
	if result.Reply != domain.ReplyHandOff {
		t.Errorf("expected hand-off reply, got %q", result.Reply)
	}
}

func TestProcessMessageBriefReadyParks(t *testing.T) {
	brief := `{"site_type": "portfolio", "goal": "mostrar trabajos", "sections": ["inicio", "galeria"]}`
	provider := &scriptedProvider{raw: modelJSON("anotado", 10, false, brief)}
	svc, _, _ := newTestService(provider)

	result, err := svc.ProcessMessage(context.Background(), ChatRequest{Message: "una galería y una página de inicio"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Ready brief plus a low heuristic parks at BRIEF_READY.
	if result.Status != domain.StatusBriefReady {
		t.Errorf("expected BRIEF_READY, got %s", result.Status)
	}
	if result.Brief.SiteType != "portfolio" {
		t.Errorf("brief not merged: %+v", result.Brief)
	}
}

func TestProcessMessageBriefReadyEscalatesOnHotScore(t *testing.T) {
	brief := `{"site_type": "tienda", "goal": "vender", "sections": ["inicio", "tienda"]}`
	provider := &scriptedProvider{raw: modelJSON("anotado", 10, false, brief)}
	svc, repo, _ := newTestService(provider)

	// Seed an already-warm conversation.
	seed := &repository.Conversation{ID: "warm", Status: domain.StatusQualifying, LeadScore: 45}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatal(err)
	}

	result, err := svc.ProcessMessage(context.Background(), ChatRequest{
		ConversationID: "warm",
		Message:        "necesito la tienda cuanto antes, dime precio",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != domain.StatusPendingOwnerApproval {
		t.Errorf("expected escalation to PENDING_OWNER_APPROVAL, got %s", result.Status)
	}
	if result.Reply != domain.ReplyHandOff {
		t.Errorf("expected hand-off reply, got %q", result.Reply)
	}
}

func TestProcessMessagePendingShortCircuit(t *testing.T) {
	provider := &scriptedProvider{raw: modelJSON("no debería llamarse", 0, false, "{}")}
	svc, repo, recorder := newTestService(provider)

	seed := &repository.Conversation{
		ID:           "pending",
		Status:       domain.StatusPendingOwnerApproval,
		LeadScore:    80,
		LeadNotified: true,
		Brief:        domain.Brief{SiteType: "tienda", Goal: "vender", Sections: []string{"inicio"}},
	}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatal(err)
	}

	result, err := svc.ProcessMessage(context.Background(), ChatRequest{
		ConversationID: "pending",
		Message:        "¿alguna novedad?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Reply != domain.ReplyUnderReview {
		t.Errorf("expected under-review reply, got %q", result.Reply)
	}
	if result.Status != domain.StatusPendingOwnerApproval {
		t.Errorf("status must not move, got %s", result.Status)
	}
	if provider.callCount() != 0 {
		t.Errorf("completion provider must not be called while pending, got %d calls", provider.callCount())
	}
	if recorder.count() != 0 {
		t.Errorf("no alert expected while pending, got %d", recorder.count())
	}

	msgs, _ := repo.ListMessages(context.Background(), "pending")
	if len(msgs) != 2 {
		t.Errorf("expected both turns recorded, got %d messages", len(msgs))
	}
}

func TestProcessMessageNotifiesOnce(t *testing.T) {
	provider := &scriptedProvider{raw: modelJSON("gracias", 10, false, "{}")}
	svc, _, recorder := newTestService(provider)

	first, err := svc.ProcessMessage(context.Background(), ChatRequest{Message: "hola"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ProcessMessage(context.Background(), ChatRequest{
		ConversationID: first.ConversationID,
		Message:        "sigo aquí",
	}); err != nil {
		t.Fatal(err)
	}

	if recorder.count() != 1 {
		t.Errorf("expected exactly one owner alert, got %d", recorder.count())
	}
}

func TestProcessMessageProviderDownStillFlows(t *testing.T) {
	provider := &scriptedProvider{err: fmt.Errorf("upstream down")}
	svc, _, _ := newTestService(provider)

	result, err := svc.ProcessMessage(context.Background(), ChatRequest{Message: "quiero un presupuesto urgente"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Local intent detection still escalates without the model.
	if result.Status != domain.StatusPendingOwnerApproval {
		t.Errorf("expected escalation on local intent, got %s", result.Status)
	}
	if result.Reply != domain.ReplyHandOff {
		t.Errorf("expected hand-off reply, got %q", result.Reply)
	}
	if result.LeadScore < 65 {
		t.Errorf("expected heuristic score, got %d", result.LeadScore)
	}
}

func TestProcessMessageValidation(t *testing.T) {
	svc, _, _ := newTestService(&scriptedProvider{raw: modelJSON("ok", 0, false, "{}")})

	_, err := svc.ProcessMessage(context.Background(), ChatRequest{Message: "   "})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("expected validation error for empty message, got %v", err)
	}

	_, err = svc.ProcessMessage(context.Background(), ChatRequest{Message: strings.Repeat("a", 1201)})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("expected validation error for oversized message, got %v", err)
	}

	// The bound counts characters, not bytes: a 1200-char accented message
	// is within the limit even though it is 2400 bytes.
	_, err = svc.ProcessMessage(context.Background(), ChatRequest{Message: strings.Repeat("ñ", 1200)})
	if err != nil {
		t.Errorf("expected accented message at the limit to pass, got %v", err)
	}

	_, err = svc.ProcessMessage(context.Background(), ChatRequest{Message: strings.Repeat("ñ", 1201)})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("expected validation error for 1201 chars, got %v", err)
	}
}

func TestProcessMessageRedactsPersonalData(t *testing.T) {
	provider := &scriptedProvider{raw: modelJSON("gracias", 0, false, "{}")}
	svc, repo, _ := newTestService(provider)

	result, err := svc.ProcessMessage(context.Background(), ChatRequest{
		Message: "escríbeme a juan@ejemplo.com o al 612345678",
	})
	if err != nil {
		t.Fatal(err)
	}

	msgs, _ := repo.ListMessages(context.Background(), result.ConversationID)
	if strings.Contains(msgs[0].Content, "juan@ejemplo.com") || strings.Contains(msgs[0].Content, "612345678") {
		t.Errorf("personal data stored unredacted: %q", msgs[0].Content)
	}
}

func TestDecideAndExport(t *testing.T) {
	svc, repo, _ := newTestService(&scriptedProvider{raw: modelJSON("ok", 0, false, "{}")})

	seed := &repository.Conversation{
		ID:     "deal",
		Status: domain.StatusPendingOwnerApproval,
		Brief:  domain.Brief{SiteType: "tienda", Goal: "vender", Sections: []string{"inicio", "tienda"}},
	}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatal(err)
	}

	// Export before approval is forbidden.
	if _, err := svc.ExportBrief(context.Background(), "deal"); apperr.GetKind(err) != apperr.KindForbidden {
		t.Errorf("expected forbidden before approval, got %v", err)
	}

	status, err := svc.Decide(context.Background(), "deal", true)
	if err != nil {
		t.Fatal(err)
	}
	if status != domain.StatusApproved {
		t.Errorf("expected APPROVED, got %s", status)
	}

	export, err := svc.ExportBrief(context.Background(), "deal")
	if err != nil {
		t.Fatalf("unexpected export error: %v", err)
	}
	if !strings.Contains(export.Markdown, "# Brief NovaEstudioWeb") {
		t.Errorf("missing markdown header:\n%s", export.Markdown)
	}
	if !strings.Contains(export.Markdown, "- Tipo de web: tienda") {
		t.Errorf("missing brief line:\n%s", export.Markdown)
	}
}

func TestDecidedConversationIsFrozen(t *testing.T) {
	provider := &scriptedProvider{raw: modelJSON("gracias", 95, true, "{}")}
	svc, repo, _ := newTestService(provider)

	seed := &repository.Conversation{ID: "done", Status: domain.StatusRejected, LeadNotified: true}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatal(err)
	}

	result, err := svc.ProcessMessage(context.Background(), ChatRequest{
		ConversationID: "done",
		Message:        "quiero contratar ya",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != domain.StatusRejected {
		t.Errorf("decided conversation must stay frozen, got %s", result.Status)
	}
}
