package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/slashroll/slashroll/internal/access"
	"github.com/slashroll/slashroll/internal/common"
	"github.com/slashroll/slashroll/pkg/responses"
)

// TeamSource extracts the raw team id of a request.
type TeamSource func(c *gin.Context) string

// FromQuery reads the team id from a query parameter.
func FromQuery(name string) TeamSource {
	return func(c *gin.Context) string { return c.Query(name) }
}

// FromParam reads the team id from a path parameter.
func FromParam(name string) TeamSource {
	return func(c *gin.Context) string { return c.Param(name) }
}

// RequireTeam authorizes the request's team once, before any handler runs.
// A missing or malformed id is a 400, a team outside the principal's
// permitted set is a 403.
func RequireTeam(accessSvc *access.Service, source TeamSource) gin.HandlerFunc {
	return teamGuard(accessSvc, source, true)
}

// OptionalTeam is RequireTeam for routes that also work without a team.
func OptionalTeam(accessSvc *access.Service, source TeamSource) gin.HandlerFunc {
	return teamGuard(accessSvc, source, false)
}

func teamGuard(accessSvc *access.Service, source TeamSource, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := source(c)
		if raw == "" {
			if required {
				responses.BadRequest(c, "team_id is required")
				return
			}
			c.Next()
			return
		}

		teamID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || teamID == 0 {
			responses.BadRequest(c, "Invalid team_id")
			return
		}

		principal, ok := CurrentPrincipal(c)
		if !ok {
			responses.Unauthorized(c, "Authentication required")
			return
		}

		if err := accessSvc.AuthorizeTeam(c.Request.Context(), principal, uint(teamID)); err != nil {
			responses.Fail(c, err)
			return
		}

		c.Set(common.ContextTeamIDKey, uint(teamID))
		c.Next()
	}
}

// TeamID returns the team authorized by RequireTeam, or 0.
func TeamID(c *gin.Context) uint {
	v, ok := c.Get(common.ContextTeamIDKey)
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}
