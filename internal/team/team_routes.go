package team

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slashroll/slashroll/internal/access"
	mw "github.com/slashroll/slashroll/internal/middleware"
	"github.com/slashroll/slashroll/pkg/rmiddleware"
)

// TeamRoutes sets up all team-related routes
func TeamRoutes(router *gin.RouterGroup, db *gorm.DB, accessSvc *access.Service) {
	teamController := NewTeamController(NewTeamRepository(db), accessSvc)
	teamGuard := mw.RequireTeam(accessSvc, mw.FromParam("id"))

	router.GET("/teams", teamController.GetTeams)
	router.GET("/teams/:id", teamGuard, teamController.GetTeamByID)
	router.PUT("/teams/:id", teamGuard, teamController.UpdateTeam)

	// Superadmin-only team management
	adminRoutes := router.Group("/teams")
	adminRoutes.Use(rmiddleware.SuperadminMiddleware())
	{
		adminRoutes.POST("", teamController.CreateTeam)
		adminRoutes.DELETE("/:id", teamController.DeleteTeam)
	}
}
