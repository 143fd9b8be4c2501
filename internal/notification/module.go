// Package notification sends owner alerts in response to domain events.
// This module subscribes to events and inverts the dependency: the
// conversation module never needs to know about email or WhatsApp.
package notification

import (
	"context"
	"strconv"
	"strings"

	"novaestudio_backend/internal/email"
	"novaestudio_backend/internal/events"
	"novaestudio_backend/platform/config"
	"novaestudio_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// WhatsAppSender sends WhatsApp messages.
type WhatsAppSender interface {
	SendMessage(ctx context.Context, phoneNumber string, message string) error
}

// Module dispatches lead alerts to the configured channels.
type Module struct {
	emailSender email.Sender
	whatsapp    WhatsAppSender
	cfg         config.NotificationConfig
	log         *logger.Logger
}

// NewModule creates the notification module.
func NewModule(emailSender email.Sender, whatsapp WhatsAppSender, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{
		emailSender: emailSender,
		whatsapp:    whatsapp,
		cfg:         cfg,
		log:         log,
	}
}

// Subscribe registers the module's event handlers on the bus.
func (m *Module) Subscribe(bus events.Bus) {
	bus.Subscribe(events.LeadQualified{}.EventName(), events.HandlerFunc(m.handleLeadQualified))
	bus.Subscribe(events.ConversationDecided{}.EventName(), events.HandlerFunc(m.handleDecided))
}

// handleLeadQualified fans the alert out to every configured channel. Each
// channel settles independently and failures are logged, never returned:
// a dead mail server must not block the chat response or the other channel.
func (m *Module) handleLeadQualified(ctx context.Context, event events.Event) error {
	alert, ok := event.(events.LeadQualified)
	if !ok {
		return nil
	}

	text := m.buildOwnerSummary(alert)

	var g errgroup.Group
	for _, channel := range m.cfg.GetNotifyChannels() {
		switch strings.TrimSpace(channel) {
		case "email":
			g.Go(func() error {
				err := m.emailSender.SendLeadAlert(ctx, m.cfg.GetAdminEmail(), email.SubjectLeadAlert, text)
				m.log.NotificationEvent("email", alert.ConversationID, err)
				return nil
			})
		case "whatsapp":
			g.Go(func() error {
				err := m.whatsapp.SendMessage(ctx, m.cfg.GetAdminWhatsApp(), text)
				m.log.NotificationEvent("whatsapp", alert.ConversationID, err)
				return nil
			})
		}
	}
	return g.Wait()
}

// handleDecided records admin decisions. Visitors are not contacted directly,
// so a log line is all this needs.
func (m *Module) handleDecided(ctx context.Context, event events.Event) error {
	decision, ok := event.(events.ConversationDecided)
	if !ok {
		return nil
	}
	m.log.Info("conversation decided",
		"conversation_id", decision.ConversationID,
		"status", decision.Status,
	)
	return nil
}

func (m *Module) buildOwnerSummary(alert events.LeadQualified) string {
	sections := "sin definir"
	if len(alert.Brief.Sections) > 0 {
		sections = strings.Join(alert.Brief.Sections, ", ")
	}

	lines := []string{
		"Nuevo posible cliente",
		"ID: " + alert.ConversationID,
		"Estado: " + alert.Status,
		"Lead score: " + strconv.Itoa(alert.LeadScore),
		"Tipo web: " + valueOr(alert.Brief.SiteType),
		"Objetivo: " + valueOr(alert.Brief.Goal),
		"Secciones: " + sections,
	}
	summary := strings.Join(lines, "\n")

	if panelURL := m.cfg.GetAdminPanelURL(); panelURL != "" {
		summary += "\n\nPanel: " + panelURL + "?id=" + alert.ConversationID
	}
	return summary
}

func valueOr(s string) string {
	if strings.TrimSpace(s) == "" {
		return "sin definir"
	}
	return s
}
