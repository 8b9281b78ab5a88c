package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elbuensabor/restaurante-api/utils"
)

// RequireRole only lets through principals whose role is in the allow
// list. Admin passes everything.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, utils.ErrAuth)
			c.Abort()
			return
		}

		if userRole == "admin" {
			c.Next()
			return
		}

		for _, r := range roles {
			if userRole == r {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, utils.ErrNoPermission)
		c.Abort()
	}
}
