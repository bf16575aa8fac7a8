package rmiddleware

import (
	"github.com/gin-gonic/gin"

	"github.com/slashroll/slashroll/internal/middleware"
	"github.com/slashroll/slashroll/pkg/responses"
)

// SuperadminMiddleware admits only the superadmin.
func SuperadminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := middleware.CurrentPrincipal(c)
		if !ok {
			responses.Unauthorized(c, "Authentication required")
			return
		}
		if !principal.IsSuperadmin() {
			responses.Forbidden(c, "Superadmin access required")
			return
		}
		c.Next()
	}
}
