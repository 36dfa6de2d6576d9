package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-api/internal/middleware"
	"chat-api/internal/models"
	"chat-api/internal/observability"
	"chat-api/internal/repositories"
	"chat-api/internal/telemetry"
)

// MessageHandler serves message and delivery-status endpoints, all scoped
// under a chat.
type MessageHandler struct {
	chatRepo    repositories.ChatRepository
	messageRepo repositories.MessageRepository
	audit       *telemetry.AuditEmitter
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(chatRepo repositories.ChatRepository, messageRepo repositories.MessageRepository, audit *telemetry.AuditEmitter) *MessageHandler {
	return &MessageHandler{chatRepo: chatRepo, messageRepo: messageRepo, audit: audit}
}

// requireMember hides the chat and everything under it from non-members.
func (h *MessageHandler) requireMember(c *gin.Context, chatID string) bool {
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

// messageInChat loads the message and enforces that it belongs to the chat
// in the URL. Out-of-scope messages look absent.
func (h *MessageHandler) messageInChat(c *gin.Context, chatID, messageID string) (models.Message, bool) {
	msg, err := h.messageRepo.GetMessage(c.Request.Context(), messageID)
	if err != nil {
		respondError(c, err)
		return models.Message{}, false
	}
	if msg.ChatID != chatID {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return models.Message{}, false
	}
	return msg, true
}

// Create handles POST /chats/:chat_id/messages. The message insert and its
// per-member status fan-out commit together.
func (h *MessageHandler) Create(c *gin.Context) {
	chatID := c.Param("chat_id")
	if !h.requireMember(c, chatID) {
		return
	}

	var req struct {
		Content string  `json:"content" binding:"required"`
		FileID  *string `json:"file_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messageRepo.CreateMessage(c.Request.Context(), chatID, middleware.CallerID(c), req.Content, req.FileID)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := buildMessageView(c.Request.Context(), h.messageRepo, msg)
	if err != nil {
		respondError(c, err)
		return
	}

	observability.ObserveMessageCreated(len(view.Statuses))
	emitAudit(c, h.audit, "INFO", "message created")
	c.JSON(http.StatusCreated, view)
}

// List handles GET /chats/:chat_id/messages, newest first over a skip/limit
// window.
func (h *MessageHandler) List(c *gin.Context) {
	chatID := c.Param("chat_id")
	if !h.requireMember(c, chatID) {
		return
	}

	skip, limit := paginationParams(c)
	msgs, err := h.messageRepo.ListMessages(c.Request.Context(), chatID, skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]models.MessageView, 0, len(msgs))
	for _, msg := range msgs {
		view, err := buildMessageView(c.Request.Context(), h.messageRepo, msg)
		if err != nil {
			respondError(c, err)
			return
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, views)
}

// Get handles GET /chats/:chat_id/messages/:message_id.
func (h *MessageHandler) Get(c *gin.Context) {
	chatID := c.Param("chat_id")
	if !h.requireMember(c, chatID) {
		return
	}

	msg, ok := h.messageInChat(c, chatID, c.Param("message_id"))
	if !ok {
		return
	}

	view, err := buildMessageView(c.Request.Context(), h.messageRepo, msg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Update handles PUT /chats/:chat_id/messages/:message_id. Only the sender
// may edit, and only the content is mutable.
func (h *MessageHandler) Update(c *gin.Context) {
	chatID := c.Param("chat_id")
	if !h.requireMember(c, chatID) {
		return
	}

	msg, ok := h.messageInChat(c, chatID, c.Param("message_id"))
	if !ok {
		return
	}
	if msg.SenderID != middleware.CallerID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the sender can edit a message"})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.messageRepo.UpdateContent(c.Request.Context(), msg.ID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := buildMessageView(c.Request.Context(), h.messageRepo, updated)
	if err != nil {
		respondError(c, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "message edited")
	c.JSON(http.StatusOK, view)
}

// Delete handles DELETE /chats/:chat_id/messages/:message_id. The sender or
// a chat admin may delete; status rows go with the message.
func (h *MessageHandler) Delete(c *gin.Context) {
	chatID := c.Param("chat_id")
	if !h.requireMember(c, chatID) {
		return
	}

	msg, ok := h.messageInChat(c, chatID, c.Param("message_id"))
	if !ok {
		return
	}

	if msg.SenderID != middleware.CallerID(c) {
		admin, err := h.chatRepo.IsAdmin(c.Request.Context(), chatID, middleware.CallerID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		if !admin {
			c.JSON(http.StatusForbidden, gin.H{"error": "only the sender or an admin can delete a message"})
			return
		}
	}

	if err := h.messageRepo.DeleteMessage(c.Request.Context(), msg.ID); err != nil {
		respondError(c, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "message deleted")
	c.Status(http.StatusNoContent)
}

// UpdateStatus handles PUT /chats/:chat_id/messages/:message_id/status.
// The row is created when the caller joined after the message was sent.
func (h *MessageHandler) UpdateStatus(c *gin.Context) {
	chatID := c.Param("chat_id")
	if !h.requireMember(c, chatID) {
		return
	}

	msg, ok := h.messageInChat(c, chatID, c.Param("message_id"))
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of: sent, delivered, seen"})
		return
	}

	if _, err := h.messageRepo.UpsertStatus(c.Request.Context(), msg.ID, middleware.CallerID(c), req.Status); err != nil {
		respondError(c, err)
		return
	}

	view, err := buildMessageView(c.Request.Context(), h.messageRepo, msg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
