package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chat-api/internal/auth"
	"chat-api/internal/models"
	"chat-api/internal/repositories"
)

// Context keys set on authenticated requests.
const (
	UserIDKey = "userID"
	UserKey   = "user"
)

// AuthMiddleware resolves the caller from an X-API-Key header or a bearer
// session token. A present-but-invalid API key is rejected outright; an
// absent key defers to the bearer token. Inactive users are rejected on
// both paths.
func AuthMiddleware(apiKeyRepo repositories.APIKeyRepository, userRepo repositories.UserRepository, tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader("X-API-Key"); key != "" {
			apiKey, err := apiKeyRepo.GetActiveByKey(c.Request.Context(), key)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
				return
			}

			user, err := userRepo.GetUser(c.Request.Context(), apiKey.UserID)
			if err != nil || !user.IsActive {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
				return
			}

			// Best effort: a contended timestamp update must not fail the
			// request it authenticated.
			if err := apiKeyRepo.TouchLastUsed(c.Request.Context(), apiKey.ID); err != nil {
				log.Printf("api key last_used_at update failed: %v", err)
			}

			setCaller(c, user)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		userID, err := tokens.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := userRepo.GetUser(c.Request.Context(), userID)
		if err != nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		setCaller(c, user)
		c.Next()
	}
}

func setCaller(c *gin.Context, user models.User) {
	c.Set(UserIDKey, user.ID)
	c.Set(UserKey, user)
}

// CallerID returns the authenticated user id from the request context.
func CallerID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// Caller returns the authenticated user from the request context.
func Caller(c *gin.Context) (models.User, bool) {
	val, ok := c.Get(UserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}
