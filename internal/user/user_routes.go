package user

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slashroll/slashroll/config"
	"github.com/slashroll/slashroll/pkg/rmiddleware"
)

// UserRoutes sets up the superadmin-only account management routes
func UserRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	userController := NewUserController(NewUserRepository(db), appConfig)

	users := router.Group("/users")
	users.Use(rmiddleware.SuperadminMiddleware())
	{
		users.GET("", userController.GetUsers)
		users.POST("", userController.CreateUser)
		users.GET("/:id", userController.GetUser)
		users.PUT("/:id", userController.UpdateUser)
		users.DELETE("/:id", userController.DeleteUser)
		users.GET("/:id/teams", userController.GetUserTeams)
		users.POST("/:id/teams", userController.AssignTeam)
		users.DELETE("/:id/teams/:team_id", userController.UnassignTeam)
	}
}
