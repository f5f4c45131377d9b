package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mswdo/soloparent-backend/config"
)

// Context keys set by AuthMiddleware.
const (
	ctxActorID  = "actor_id"
	ctxRole     = "role"
	ctxBarangay = "barangay"
	ctxCodeID   = "code_id"
	ctxClaims   = "claims"
)

// Role names carried in the JWT. Applicants, barangay admins, and the MSWDO
// superadmin sign in through the same endpoint.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// AuthMiddleware validates the bearer token and sets the actor context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTAccessSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}

		idFloat, ok := claims["user_id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_id missing in token"})
			return
		}
		role, _ := claims["role"].(string)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "role missing in token"})
			return
		}

		c.Set(ctxActorID, uint(idFloat))
		c.Set(ctxRole, role)
		c.Set(ctxClaims, claims)
		if barangay, _ := claims["barangay"].(string); barangay != "" {
			c.Set(ctxBarangay, barangay)
		}
		if codeID, _ := claims["code_id"].(string); codeID != "" {
			c.Set(ctxCodeID, codeID)
		}

		c.Next()
	}
}

// ActorIDFrom returns the authenticated actor's id, 0 when unauthenticated.
func ActorIDFrom(c *gin.Context) uint {
	if v, ok := c.Get(ctxActorID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func RoleFrom(c *gin.Context) string {
	if v, ok := c.Get(ctxRole); ok {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

// BarangayFrom returns the admin's barangay scope, empty for other roles.
func BarangayFrom(c *gin.Context) string {
	if v, ok := c.Get(ctxBarangay); ok {
		if b, ok := v.(string); ok {
			return b
		}
	}
	return ""
}

// CodeIDFrom returns the applicant's case code, empty for staff tokens.
func CodeIDFrom(c *gin.Context) string {
	if v, ok := c.Get(ctxCodeID); ok {
		if code, ok := v.(string); ok {
			return code
		}
	}
	return ""
}
