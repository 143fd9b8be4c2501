// Package whatsapp sends owner alerts through the WhatsApp Cloud API.
package whatsapp

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
	"novaestudio_backend/platform/logger"
	"novaestudio_backend/platform/phone"
)

const graphBaseURL = "https://graph.facebook.com/v19.0"

// Client is a minimal WhatsApp Cloud API client. A nil client silently drops
// messages so callers never have to branch on configuration.
type Client struct {
	token    string
	senderID string
	http     *http.Client
	log      *logger.Logger
}

type cloudTextRequest struct {
	MessagingProduct string    `json:"messaging_product"`
	To               string    `json:"to"`
	Type             string    `json:"type"`
	Text             cloudText `json:"text"`
}

type cloudText struct {
	Body string `json:"body"`
}

// NewClient builds a client from configuration. Returns nil when WhatsApp is
// not configured.
func NewClient(cfg config.WhatsAppConfig, log *logger.Logger) *Client {
	if cfg.GetWhatsAppToken() == "" || cfg.GetWhatsAppSenderID() == "" {
		return nil
	}

	return &Client{
		token:    cfg.GetWhatsAppToken(),
		senderID: cfg.GetWhatsAppSenderID(),
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

// SendMessage sends a plain-text message to the given phone number.
func (c *Client) SendMessage(ctx context.Context, phoneNumber string, message string) error {
	if c == nil {
		return nil
	}

	normalized := strings.TrimPrefix(phone.NormalizeE164(phoneNumber), "+")

	payload := cloudTextRequest{
		MessagingProduct: "whatsapp",
		To:               normalized,
		Type:             "text",
		Text:             cloudText{Body: message},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", graphBaseURL, c.senderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("whatsapp api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.Info("whatsapp sent", "phone", normalized)
	return nil
}
