package handler

import (
	"novaestudio_backend/internal/conversation/service"
	"novaestudio_backend/internal/conversation/transport"
	"novaestudio_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles the owner's panel endpoints.
type AdminHandler struct {
	svc *service.Service
}

// NewAdmin creates a new admin handler.
func NewAdmin(svc *service.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// RegisterRoutes registers the admin routes.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/conversations", h.List)
	rg.GET("/conversations/:id", h.Detail)
	rg.POST("/conversations/:id/approve", h.Approve)
	rg.POST("/conversations/:id/reject", h.Reject)
	rg.POST("/conversations/:id/notify", h.Notify)
	rg.GET("/conversations/:id/export", h.Export)
	rg.DELETE("/conversations/:id", h.Delete)
}

// List returns all conversations, newest activity first.
func (h *AdminHandler) List(c *gin.Context) {
	conversations, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	summaries := make([]transport.ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		summaries = append(summaries, transport.NewConversationSummary(conv))
	}
	httpkit.OK(c, gin.H{"conversations": summaries})
}

// Detail returns one conversation with its transcript.
func (h *AdminHandler) Detail(c *gin.Context) {
	detail, err := h.svc.GetDetail(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewConversationDetail(detail))
}

// Approve marks a conversation as approved.
func (h *AdminHandler) Approve(c *gin.Context) {
	h.decide(c, true)
}

// Reject marks a conversation as rejected.
func (h *AdminHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *AdminHandler) decide(c *gin.Context, approve bool) {
	status, err := h.svc.Decide(c.Request.Context(), c.Param("id"), approve)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.DecisionResponse{OK: true, Status: string(status)})
}

// Notify re-dispatches the owner alert for a conversation.
func (h *AdminHandler) Notify(c *gin.Context) {
	if err := h.svc.Notify(c.Request.Context(), c.Param("id")); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"ok": true})
}

// Export returns the approved brief as markdown.
func (h *AdminHandler) Export(c *gin.Context) {
	export, err := h.svc.ExportBrief(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ExportResponse{OK: true, Brief: export.Brief, Markdown: export.Markdown})
}

// Delete removes a conversation and its transcript.
func (h *AdminHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"ok": true})
}
