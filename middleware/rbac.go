package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RBACMiddleware checks if the actor has one of the allowed roles
func RBACMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := RoleFrom(c)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
	}
}

// RequireBarangayScope rejects admin tokens that carry no barangay. Every
// barangay-admin query is filtered by this value.
func RequireBarangayScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		if RoleFrom(c) == RoleAdmin && BarangayFrom(c) == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin token has no barangay scope"})
			return
		}
		c.Next()
	}
}
