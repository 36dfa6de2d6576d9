package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-api/internal/middleware"
	"chat-api/internal/repositories"
)

// UserHandler serves user profile endpoints.
type UserHandler struct {
	userRepo repositories.UserRepository
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// Me handles GET /users/me.
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := middleware.Caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe handles PUT /users/me. Only the provided fields change.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req struct {
		FullName       *string `json:"full_name"`
		Email          *string `json:"email" binding:"omitempty,email"`
		ProfilePicture *string `json:"profile_picture"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userRepo.UpdateProfile(c.Request.Context(), middleware.CallerID(c), req.FullName, req.Email, req.ProfilePicture)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// List handles GET /users with a skip/limit window.
func (h *UserHandler) List(c *gin.Context) {
	skip, limit := paginationParams(c)
	users, err := h.userRepo.ListUsers(c.Request.Context(), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Get handles GET /users/:user_id.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userRepo.GetUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
