package middlewares

import (
	"net/http"

	"civiclens-be/models"

	"github.com/gin-gonic/gin"
)

// RequireRole gates a route group to the given roles. The role comes from
// the JWT claim restored by AuthMiddleware.
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	allowedSet := make(map[models.Role]bool, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = true
	}

	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "No role in token"})
			c.Abort()
			return
		}

		role, ok := roleVal.(models.Role)
		if !ok || !models.ValidRole(role) || !allowedSet[role] {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
