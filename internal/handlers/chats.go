package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-api/internal/middleware"
	"chat-api/internal/models"
	"chat-api/internal/repositories"
	"chat-api/internal/telemetry"
)

// ChatHandler serves chat lifecycle endpoints.
type ChatHandler struct {
	chatRepo    repositories.ChatRepository
	messageRepo repositories.MessageRepository
	audit       *telemetry.AuditEmitter
}

// NewChatHandler constructs a ChatHandler.
func NewChatHandler(chatRepo repositories.ChatRepository, messageRepo repositories.MessageRepository, audit *telemetry.AuditEmitter) *ChatHandler {
	return &ChatHandler{chatRepo: chatRepo, messageRepo: messageRepo, audit: audit}
}

// requireMember hides the chat from non-members: any failure is a 404,
// never a 403, so membership existence does not leak.
func (h *ChatHandler) requireMember(c *gin.Context, chatID string) bool {
	member, err := h.chatRepo.IsMember(c.Request.Context(), chatID, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return false
	}
	if !member {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		return false
	}
	return true
}

// requireAdmin assumes membership was already established.
func (h *ChatHandler) requireAdmin(c *gin.Context, chatID string) bool {
	admin, err := h.chatRepo.IsAdmin(c.Request.Context(), chatID, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return false
	}
	if !admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin rights required"})
		return false
	}
	return true
}

// Create handles POST /chats. A two-party non-group chat is deduplicated:
// calling it again with the same pair returns the existing chat.
func (h *ChatHandler) Create(c *gin.Context) {
	var req struct {
		Name      *string  `json:"name"`
		IsGroup   bool     `json:"is_group"`
		MemberIDs []string `json:"member_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.chatRepo.CreateChat(c.Request.Context(), middleware.CallerID(c), req.Name, req.IsGroup, req.MemberIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := buildChatView(c.Request.Context(), h.chatRepo, h.messageRepo, chat)
	if err != nil {
		respondError(c, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "chat created")
	c.JSON(http.StatusCreated, view)
}

// List handles GET /chats, returning every chat the caller belongs to.
func (h *ChatHandler) List(c *gin.Context) {
	chats, err := h.chatRepo.ListChatsForUser(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]models.ChatView, 0, len(chats))
	for _, chat := range chats {
		view, err := buildChatView(c.Request.Context(), h.chatRepo, h.messageRepo, chat)
		if err != nil {
			respondError(c, err)
			return
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, views)
}

// Get handles GET /chats/:chat_id.
func (h *ChatHandler) Get(c *gin.Context) {
	chatID := c.Param("chat_id")
	if !h.requireMember(c, chatID) {
		return
	}

	chat, err := h.chatRepo.GetChat(c.Request.Context(), chatID)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := buildChatView(c.Request.Context(), h.chatRepo, h.messageRepo, chat)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Update handles PUT /chats/:chat_id. Renaming requires admin rights.
func (h *ChatHandler) Update(c *gin.Context) {
	chatID := c.Param("chat_id")
	if !h.requireMember(c, chatID) || !h.requireAdmin(c, chatID) {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.chatRepo.UpdateChatName(c.Request.Context(), chatID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := buildChatView(c.Request.Context(), h.chatRepo, h.messageRepo, chat)
	if err != nil {
		respondError(c, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "chat renamed")
	c.JSON(http.StatusOK, view)
}

// Delete handles DELETE /chats/:chat_id (admin only).
func (h *ChatHandler) Delete(c *gin.Context) {
	chatID := c.Param("chat_id")
	if !h.requireMember(c, chatID) || !h.requireAdmin(c, chatID) {
		return
	}

	if err := h.chatRepo.DeleteChat(c.Request.Context(), chatID); err != nil {
		respondError(c, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "chat deleted")
	c.Status(http.StatusNoContent)
}

// AddMember handles POST /chats/:chat_id/members/:user_id (admin, group
// chats only).
func (h *ChatHandler) AddMember(c *gin.Context) {
	chatID := c.Param("chat_id")
	if !h.requireMember(c, chatID) || !h.requireAdmin(c, chatID) {
		return
	}

	if err := h.chatRepo.AddMember(c.Request.Context(), chatID, c.Param("user_id")); err != nil {
		respondError(c, err)
		return
	}

	chat, err := h.chatRepo.GetChat(c.Request.Context(), chatID)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := buildChatView(c.Request.Context(), h.chatRepo, h.messageRepo, chat)
	if err != nil {
		respondError(c, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "chat member added")
	c.JSON(http.StatusOK, view)
}

// RemoveMember handles DELETE /chats/:chat_id/members/:user_id. Admins may
// remove anyone; a member may always remove themselves.
func (h *ChatHandler) RemoveMember(c *gin.Context) {
	chatID := c.Param("chat_id")
	targetID := c.Param("user_id")
	if !h.requireMember(c, chatID) {
		return
	}

	if targetID != middleware.CallerID(c) {
		if !h.requireAdmin(c, chatID) {
			return
		}
	}

	if err := h.chatRepo.RemoveMember(c.Request.Context(), chatID, targetID); err != nil {
		respondError(c, err)
		return
	}

	chat, err := h.chatRepo.GetChat(c.Request.Context(), chatID)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := buildChatView(c.Request.Context(), h.chatRepo, h.messageRepo, chat)
	if err != nil {
		respondError(c, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "chat member removed")
	c.JSON(http.StatusOK, view)
}
