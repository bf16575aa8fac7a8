package auth

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slashroll/slashroll/config"
	"github.com/slashroll/slashroll/internal/access"
	"github.com/slashroll/slashroll/internal/session"
)

// RegisterAuthRoutes mounts /login and /logout on public and the session
// endpoints under /auth on protected, which must already run SessionAuth.
func RegisterAuthRoutes(public, protected *gin.RouterGroup, db *gorm.DB, accessSvc *access.Service, store session.RevocationStore, appConfig *config.Config) {
	authController := NewAuthController(NewAuthRepository(db), accessSvc, store, appConfig)

	public.POST("/login", authController.Login)
	public.POST("/logout", authController.Logout)

	authProtected := protected.Group("/auth")
	{
		authProtected.GET("/status", authController.Status)
		authProtected.GET("/teams", authController.Teams)
	}
}
