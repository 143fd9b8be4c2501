// Package handler exposes the conversation module over HTTP.
package handler

import (
	"net/http"

	"novaestudio_backend/internal/conversation/service"
	"novaestudio_backend/internal/conversation/transport"
	"novaestudio_backend/platform/config"
	"novaestudio_backend/platform/httpkit"
	"novaestudio_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const msgInvalidRequest = "Mensaje inválido."

// Handler handles the public chat endpoint.
type Handler struct {
	svc *service.Service
	val *validator.Validator
	cfg config.IdentityConfig
}

// New creates a new chat handler.
func New(svc *service.Service, val *validator.Validator, cfg config.IdentityConfig) *Handler {
	return &Handler{svc: svc, val: val, cfg: cfg}
}

// RegisterRoutes registers the public chat routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat", h.Chat)
}

// Chat processes one visitor message.
func (h *Handler) Chat(c *gin.Context) {
	var req transport.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	result, err := h.svc.ProcessMessage(c.Request.Context(), service.ChatRequest{
		ConversationID: req.ConversationID,
		Message:        req.Message,
		Consent:        req.Metadata.Consent,
		IPHash:         httpkit.HashClientIP(h.cfg.GetIPHashSalt(), c.ClientIP()),
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NewChatResponse(result))
}
