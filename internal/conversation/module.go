// Package conversation provides the lead-qualification conversation module.
package conversation

import (
	apphttp "novaestudio_backend/internal/http"

	"novaestudio_backend/internal/conversation/agent"
	"novaestudio_backend/internal/conversation/handler"
	"novaestudio_backend/internal/conversation/repository"
	"novaestudio_backend/internal/conversation/service"
	"novaestudio_backend/internal/events"
	"novaestudio_backend/platform/config"
	"novaestudio_backend/platform/logger"
	"novaestudio_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the conversation domain module.
type Module struct {
	handler      *handler.Handler
	adminHandler *handler.AdminHandler
	service      *service.Service
}

// NewModule creates a new conversation module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, provider agent.Provider, eventBus *events.InMemoryBus, val *validator.Validator, cfg config.IdentityConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	adapter := agent.NewAdapter(provider, log)
	svc := service.New(repo, adapter, eventBus, log)

	return &Module{
		handler:      handler.New(svc, val, cfg),
		adminHandler: handler.NewAdmin(svc),
		service:      svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "conversation"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	chat := ctx.V1.Group("")
	if ctx.ChatRateLimit != nil {
		chat.Use(ctx.ChatRateLimit)
	}
	m.handler.RegisterRoutes(chat)

	m.adminHandler.RegisterRoutes(ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
