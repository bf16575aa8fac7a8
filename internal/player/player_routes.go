package player

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slashroll/slashroll/internal/access"
	mw "github.com/slashroll/slashroll/internal/middleware"
)

// PlayerRoutes sets up the player CRUD routes. Slot routes live in the
// roster package.
func PlayerRoutes(router *gin.RouterGroup, db *gorm.DB, accessSvc *access.Service) {
	playerController := NewPlayerController(NewPlayerRepository(db))

	players := router.Group("/players")
	players.Use(mw.RequireTeam(accessSvc, mw.FromQuery("team_id")))
	{
		players.GET("", playerController.GetPlayers)
		players.POST("", playerController.CreatePlayer)
		players.PUT("/:id", playerController.UpdatePlayer)
		players.DELETE("/:id", playerController.DeletePlayer)
		players.PUT("/:id/status", playerController.UpdatePlayerStatus)
		players.GET("/:id/battle-stats", playerController.GetBattleStats)
	}
}
