package season

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slashroll/slashroll/internal/access"
	mw "github.com/slashroll/slashroll/internal/middleware"
)

// SeasonRoutes sets up all season-related routes
func SeasonRoutes(router *gin.RouterGroup, db *gorm.DB, accessSvc *access.Service) {
	seasonController := NewSeasonController(NewSeasonRepository(db))

	router.GET("/seasons/current", mw.OptionalTeam(accessSvc, mw.FromQuery("team_id")), seasonController.GetCurrentSeason)

	seasons := router.Group("/seasons")
	seasons.Use(mw.RequireTeam(accessSvc, mw.FromQuery("team_id")))
	{
		seasons.GET("", seasonController.GetSeasons)
		seasons.POST("", seasonController.CreateSeason)
		seasons.PUT("/:id", seasonController.UpdateSeason)
		seasons.DELETE("/:id", seasonController.DeleteSeason)
	}
}
