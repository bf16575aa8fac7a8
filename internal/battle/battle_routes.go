package battle

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slashroll/slashroll/internal/access"
	mw "github.com/slashroll/slashroll/internal/middleware"
)

// BattleRoutes sets up all battle-related routes
func BattleRoutes(router *gin.RouterGroup, db *gorm.DB, accessSvc *access.Service) {
	battleController := NewBattleController(NewBattleRepository(db))

	battles := router.Group("/battles")
	battles.Use(mw.RequireTeam(accessSvc, mw.FromQuery("team_id")))
	{
		battles.GET("", battleController.GetBattles)
		battles.POST("", battleController.CreateBattle)
		battles.GET("/:id", battleController.GetBattle)
		battles.PUT("/:id", battleController.UpdateBattle)
		battles.DELETE("/:id", battleController.DeleteBattle)
	}
}
