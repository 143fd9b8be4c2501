// Package email delivers owner alert emails.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"novaestudio_backend/platform/config"
)

// Sender delivers the studio's lead-alert emails.
type Sender interface {
	SendLeadAlert(ctx context.Context, toEmail, subject, text string) error
}

// NoopSender drops every email. Used when email is not configured.
type NoopSender struct{}

// SendLeadAlert does nothing.
func (NoopSender) SendLeadAlert(ctx context.Context, toEmail, subject, text string) error {
	return nil
}

// NewSender builds a Sender from configuration. An unset provider yields the
// noop sender so the rest of the pipeline never has to nil-check.
func NewSender(cfg config.EmailConfig) Sender {
	switch cfg.GetEmailProvider() {
	case "brevo":
		return NewBrevoSender(cfg)
	case "smtp":
		return NewSMTPSender(cfg)
	default:
		return NoopSender{}
	}
}

// BrevoSender delivers email through the Brevo transactional API.
type BrevoSender struct {
	apiKey    string
	fromName  string
	fromEmail string
	client    *http.Client
}

type brevoEmailRequest struct {
	Sender struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"sender"`
	To []struct {
		Email string `json:"email"`
	} `json:"to"`
	Subject     string `json:"subject"`
	TextContent string `json:"textContent"`
}

// NewBrevoSender creates a Brevo-backed sender.
func NewBrevoSender(cfg config.EmailConfig) *BrevoSender {
	return &BrevoSender{
		apiKey:    cfg.GetBrevoAPIKey(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SendLeadAlert sends a plain-text alert through Brevo.
func (b *BrevoSender) SendLeadAlert(ctx context.Context, toEmail, subject, text string) error {
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("brevo send: no recipient configured")
	}

	payload := brevoEmailRequest{
		Subject:     subject,
		TextContent: text,
	}
	payload.Sender.Name = b.fromName
	payload.Sender.Email = b.fromEmail
	payload.To = []struct {
		Email string `json:"email"`
	}{{Email: toEmail}}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.brevo.com/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", b.apiKey)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo send failed: status %d: %s", resp.StatusCode, string(data))
	}
	return nil
}
