package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"eventhub/internal/authz"
)

// roleFrom reads the role AuthMiddleware stored on the context.
func roleFrom(c *gin.Context) (int, bool) {
	v, ok := c.Get("role_id")
	if !ok {
		return 0, false
	}
	roleID, ok := v.(int)
	return roleID, ok && authz.Valid(roleID)
}

// RequireRoles lets the request through only for the listed roles.
func RequireRoles(allowed ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleID, ok := roleFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no role in context"})
			return
		}
		if !slices.Contains(allowed, roleID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// ReadOnlyGuard rejects unsafe methods for the viewer role.
func ReadOnlyGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleID, _ := roleFrom(c)
		if authz.IsReadOnly(roleID) && !safeMethod(c.Request.Method) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "read-only role"})
			return
		}
		c.Next()
	}
}

func safeMethod(m string) bool {
	return m == http.MethodGet || m == http.MethodHead || m == http.MethodOptions
}
