package roster

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slashroll/slashroll/internal/access"
	mw "github.com/slashroll/slashroll/internal/middleware"
)

// RosterRoutes registers the slot endpoints under /players. The router group
// must already carry session authentication.
func RosterRoutes(router *gin.RouterGroup, db *gorm.DB, accessSvc *access.Service) {
	rosterController := NewRosterController(NewService(NewRosterRepository(db)))

	players := router.Group("/players")
	players.Use(mw.RequireTeam(accessSvc, mw.FromQuery("team_id")))
	{
		players.GET("/roster", rosterController.GetRoster)
		players.PUT("/swap-roster", rosterController.SwapRosterPositions)
		players.PUT("/:id/roster", rosterController.UpdateRosterPosition)
	}
}
