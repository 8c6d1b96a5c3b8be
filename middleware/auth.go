package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"worker-booking-server/database"
	"worker-booking-server/models"
	"worker-booking-server/utils"
)

// AuthMiddleware validates JWT tokens and sets user context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authorization header required",
				"message": "Please provide a valid token",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token format",
				"message": "Token must be in format: Bearer <token>",
			})
			c.Abort()
			return
		}

		claims, err := utils.VerifyToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token",
				"message": "Token is invalid or expired",
			})
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.First(&user, claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "User not found",
				"message": "User associated with token not found",
			})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)

		c.Next()
	}
}

// RequireAdmin validates the JWT and rejects non-admin users. Used for the
// /admin route group.
func RequireAdmin() gin.HandlerFunc {
	auth := AuthMiddleware()
	return func(c *gin.Context) {
		auth(c)
		if c.IsAborted() {
			return
		}

		user, ok := c.MustGet("user").(models.User)
		if !ok || !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Admin access required",
				"message": "This endpoint is restricted to administrators",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
