// Package agent wraps the completion providers behind a total adapter: the
// chat pipeline always gets a usable result, even when the provider is down
// or returns garbage.
package agent

import (
	"context"

	"novaestudio_backend/internal/conversation/domain"
)

// Turn is one prior message handed to the completion provider as context.
type Turn struct {
	Role    string
	Content string
}

// Request is the input to one completion call.
type Request struct {
	Status  domain.Status
	Brief   domain.Brief
	History []Turn
	Message string
}

// Result is the normalized provider output consumed by the chat pipeline.
type Result struct {
	Reply           string
	ExtractedBrief  domain.Brief
	LeadScore       int
	Intent          bool
	NextActions     []string
	WhatsAppSummary string
}

// wireResult mirrors the JSON object the system prompt asks the model to
// produce. lead_score is a float because models routinely emit "82.0".
type wireResult struct {
	Reply           string       `json:"reply"`
	ExtractedBrief  domain.Brief `json:"extracted_brief"`
	LeadScore       float64      `json:"lead_score"`
	Intent          bool         `json:"intent"`
	NextActions     []string     `json:"next_actions"`
	WhatsAppSummary string       `json:"whatsapp_summary"`
}

// Provider is one completion backend. Complete returns the raw JSON text the
// model produced.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}
