package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-api/internal/middleware"
	"chat-api/internal/repositories"
	"chat-api/internal/telemetry"
)

// APIKeyHandler serves API key management endpoints.
type APIKeyHandler struct {
	apiKeyRepo repositories.APIKeyRepository
	audit      *telemetry.AuditEmitter
}

// NewAPIKeyHandler constructs an APIKeyHandler.
func NewAPIKeyHandler(apiKeyRepo repositories.APIKeyRepository, audit *telemetry.AuditEmitter) *APIKeyHandler {
	return &APIKeyHandler{apiKeyRepo: apiKeyRepo, audit: audit}
}

// Create handles POST /api-keys.
func (h *APIKeyHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key, err := h.apiKeyRepo.CreateKey(c.Request.Context(), middleware.CallerID(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "api key created")
	c.JSON(http.StatusCreated, key)
}

// List handles GET /api-keys, returning only the caller's keys.
func (h *APIKeyHandler) List(c *gin.Context) {
	keys, err := h.apiKeyRepo.ListKeys(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, keys)
}

// Delete handles DELETE /api-keys/:key_id. Keys owned by other users are
// indistinguishable from missing ones.
func (h *APIKeyHandler) Delete(c *gin.Context) {
	if err := h.apiKeyRepo.DeleteKey(c.Request.Context(), c.Param("key_id"), middleware.CallerID(c)); err != nil {
		respondError(c, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "api key deleted")
	c.Status(http.StatusNoContent)
}
