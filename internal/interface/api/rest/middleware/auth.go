package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"preservation-api/internal/infrastructure/jwt"
)

const (
	CtxUserRole = "userRole"
	CtxUserID   = "userID"
)

func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "missing Authorization header"},
			)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "invalid token format"},
			)
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "invalid token"},
			)
			return
		}

		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxUserID, claims.UserID)

		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, c.GetString(CtxUserRole)) {
			c.AbortWithStatusJSON(
				http.StatusForbidden,
				gin.H{"error": "access denied"},
			)
			return
		}

		c.Next()
	}
}

// CallerUUID returns the authenticated user id set by AuthMiddleware.
func CallerUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(CtxUserID))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
