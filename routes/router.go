package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/slashroll/slashroll/config"
	"github.com/slashroll/slashroll/internal/access"
	"github.com/slashroll/slashroll/internal/auth"
	"github.com/slashroll/slashroll/internal/battle"
	"github.com/slashroll/slashroll/internal/middleware"
	"github.com/slashroll/slashroll/internal/player"
	"github.com/slashroll/slashroll/internal/roster"
	"github.com/slashroll/slashroll/internal/season"
	"github.com/slashroll/slashroll/internal/session"
	"github.com/slashroll/slashroll/internal/team"
	"github.com/slashroll/slashroll/internal/user"
	"github.com/slashroll/slashroll/pkg/responses"
)

func SetupRoutes(cfg *config.Config, db *gorm.DB, store session.RevocationStore) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(
			`<html><head><title>Slashroll</title></head>`+
				`<body style="text-align:center; margin-top: 40px;"><h1>Slashroll</h1>`+
				`<a href="/swagger/index.html">API documentation</a></body></html>`))
	})

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			responses.SendError(c, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	accessSvc := access.NewService(db)

	// API routes
	api := r.Group("/api")
	api.Use(middleware.SessionAuth(cfg.Session.Secret, cfg.Session.CookieName, accessSvc, store))

	auth.RegisterAuthRoutes(&r.RouterGroup, api, db, accessSvc, store, cfg)
	team.TeamRoutes(api, db, accessSvc)
	season.SeasonRoutes(api, db, accessSvc)
	player.PlayerRoutes(api, db, accessSvc)
	roster.RosterRoutes(api, db, accessSvc)
	battle.BattleRoutes(api, db, accessSvc)
	user.UserRoutes(api, db, cfg)

	return r
}
