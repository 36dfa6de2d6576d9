package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Docs serves a minimal machine-readable index of the API surface.
func Docs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title":   "Chat API",
		"version": "1.0.0",
		"endpoints": []string{
			"POST /api/v1/auth/register",
			"POST /api/v1/auth/login",
			"GET|PUT /api/v1/users/me",
			"GET /api/v1/users",
			"GET /api/v1/users/:user_id",
			"POST|GET /api/v1/api-keys",
			"DELETE /api/v1/api-keys/:key_id",
			"POST|GET /api/v1/chats",
			"GET|PUT|DELETE /api/v1/chats/:chat_id",
			"POST|DELETE /api/v1/chats/:chat_id/members/:user_id",
			"POST|GET /api/v1/chats/:chat_id/messages",
			"GET|PUT|DELETE /api/v1/chats/:chat_id/messages/:message_id",
			"PUT /api/v1/chats/:chat_id/messages/:message_id/status",
			"POST|GET /api/v1/files",
			"GET /api/v1/files/:file_id",
			"GET /api/v1/files/:file_id/download",
			"DELETE /api/v1/files/:file_id",
		},
	})
}
