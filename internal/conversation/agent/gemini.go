package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider calls the Google Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a provider backed by the Gemini API.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &GeminiProvider{client: client, model: model}, nil
}

// Name identifies the provider in logs.
func (p *GeminiProvider) Name() string { return "gemini" }

// geminiRole maps a transcript role onto the Gemini content role.
func geminiRole(turnRole string) genai.Role {
	if turnRole == "assistant" {
		return genai.RoleModel
	}
	return genai.RoleUser
}

// Complete runs one generation constrained to JSON output.
func (p *GeminiProvider) Complete(ctx context.Context, req Request) (string, error) {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		contents = append(contents, genai.NewContentFromText(turn.Content, geminiRole(turn.Role)))
	}
	contents = append(contents, genai.NewContentFromText(req.Message, genai.RoleUser))

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(req.Status, req.Brief), genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini completion: empty response")
	}
	return text, nil
}
