package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ronin-tn/blassa-sub000/pkg/utils"
)

func AuthMiddleware() gin.HandlerFunc {
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

		c.Set("userId", uint(id))
		if email, ok := claims["email"].(string); ok {
			c.Set("userEmail", email)
		}
		if complete, ok := claims["profileComplete"].(bool); ok {
			c.Set("profileComplete", complete)
		}
		c.Next()
	}
}

// RequireCompleteProfile blocks ride and booking mutations for accounts
// that have not finished the profile completion flow.
func RequireCompleteProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("profileComplete") {
			c.JSON(403, gin.H{"error": "PROFILE_INCOMPLETE"})
			c.Abort()
			return
		}
		c.Next()
	}
}
