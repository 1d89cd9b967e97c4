package middleware

import (
	"net/http"
	"strings"

	"aitana/config"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware guards back-office endpoints with the static admin
// key from configuration.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		adminKey := config.AppConfig.AdminKey
		if adminKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Admin access not configured"})
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		if strings.TrimPrefix(authHeader, "Bearer ") != adminKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized admin access"})
			return
		}
		c.Next()
	}
}
