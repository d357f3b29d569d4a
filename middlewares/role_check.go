package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ita-disc-inventory/backend/models"
	"github.com/ita-disc-inventory/backend/utils"
)

// RequireAdmin gates admin-only routes.
func RequireAdmin() gin.HandlerFunc {
	return requireRole(models.RoleAdmin, "Access denied. Admin role required.")
}

// RequireTherapist gates therapist-only routes.
func RequireTherapist() gin.HandlerFunc {
	return requireRole(models.RoleTherapist, "Access denied. Therapist role required.")
}

func requireRole(role, denial string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}
		if userRole != role {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%s", denial))
			c.Abort()
			return
		}
		c.Next()
	}
}
