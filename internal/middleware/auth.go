package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gymconnect/gymconnect-backend/internal/models"
	"github.com/gymconnect/gymconnect-backend/pkg/utils"
	"gorm.io/gorm"
)

// AuthMiddleware resolves the bearer token to a user record. The token
// subject is looked up in the database so that deactivated accounts are
// rejected even while their tokens are still unexpired.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// First try to get token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// If not found in header, try query parameter (for WebSocket)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(401, gin.H{"error": "Authorization header or token query parameter required"})
			c.Abort()
			return
		}

		token, err := utils.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.JSON(401, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(401, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		id, ok := claims["id"].(float64)
		if !ok {
			c.JSON(401, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, uint(id)).Error; err != nil {
			c.JSON(401, gin.H{"error": "Account not found"})
			c.Abort()
			return
		}

		if !user.IsActive {
			c.JSON(401, gin.H{"error": "Account is deactivated"})
			c.Abort()
			return
		}

		c.Set("userId", user.ID)
		c.Set("userRole", user.Role)
		c.Set("currentUser", &user)
		c.Next()
	}
}

// RequireRoles rejects callers whose role is not in the allowed set.
// Runs after AuthMiddleware, so a failure here is an authorization
// error (403), not an authentication one.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("userRole")
		for _, allowed := range roles {
			if role == string(allowed) {
				c.Next()
				return
			}
		}
		c.JSON(403, gin.H{"error": "Insufficient permissions"})
		c.Abort()
	}
}

// CurrentUser returns the user resolved by AuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get("currentUser"); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
