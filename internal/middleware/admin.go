package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coinvault/internal/models"
)

// UserGetter loads a user record by ID. Satisfied by services.UserServicer.
type UserGetter interface {
	GetUserByID(id string) (*models.User, error)
}

// RequireAdmin gates a route group to admin users. The role is re-read from
// the database on every request rather than trusted from token claims, so a
// role change takes effect immediately and tampered clients gain nothing.
// Must run after AuthMiddleware.
func RequireAdmin(users UserGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		user, err := users.GetUserByID(userID.(string))
		if err != nil || !user.IsActive || !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}
