package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	RoleAdmin = "admin"
)

// RoleRequired lets the request through only when the caller has one of roles
func RoleRequired(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetCurrentUserID(c); !ok {
			unauthorized(c, "Authentication required")
			return
		}

		role := c.GetString("user_role")
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error": gin.H{
				"kind":    "Forbidden",
				"message": "Insufficient role",
			},
			"request_id": c.GetString("request_id"),
		})
		c.Abort()
	}
}
