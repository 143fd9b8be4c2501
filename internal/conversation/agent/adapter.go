package agent

import (
	"context"
	"encoding/json"
	"time"

	"novaestudio_backend/platform/logger"
)

// FallbackReply is returned whenever the provider cannot produce a usable
// answer. The conversation keeps moving on heuristics alone.
const FallbackReply = "Gracias. ¿Qué tipo de web necesitas?"

const completionTimeout = 20 * time.Second

// Adapter turns a fallible Provider into a total function. Complete never
// returns an error: provider failures, timeouts and malformed output all
// degrade to the fallback reply with zeroed model signals.
type Adapter struct {
	provider Provider
	log      *logger.Logger
}

// NewAdapter creates a completion adapter around the given provider. A nil
// provider is allowed and always yields the fallback.
func NewAdapter(provider Provider, log *logger.Logger) *Adapter {
	return &Adapter{provider: provider, log: log}
}

// Complete runs one completion call and normalizes the output.
func (a *Adapter) Complete(ctx context.Context, conversationID string, req Request) Result {
	fallback := Result{Reply: FallbackReply}

	if a.provider == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	raw, err := a.provider.Complete(ctx, req)
	if err != nil {
		if a.log != nil {
			a.log.CompletionFallback(conversationID, err)
		}
		return fallback
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		if a.log != nil {
			a.log.CompletionFallback(conversationID, err)
		}
		return fallback
	}

	result := Result{
		Reply:           wire.Reply,
		ExtractedBrief:  wire.ExtractedBrief,
		LeadScore:       int(wire.LeadScore),
		Intent:          wire.Intent,
		NextActions:     wire.NextActions,
		WhatsAppSummary: wire.WhatsAppSummary,
	}
	if result.Reply == "" {
		result.Reply = FallbackReply
	}
	if result.LeadScore < 0 {
		result.LeadScore = 0
	}
	if result.LeadScore > 100 {
		result.LeadScore = 100
	}
	return result
}
