package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/slashroll/slashroll/config"
	_ "github.com/slashroll/slashroll/docs"
	"github.com/slashroll/slashroll/internal/database"
	"github.com/slashroll/slashroll/internal/logging"
	"github.com/slashroll/slashroll/internal/session"
	"github.com/slashroll/slashroll/routes"
)

// @title Slashroll REST API
// @version 1.0
// @description Clan roster and battle tracker.
// @host localhost:8088
// @BasePath /api
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}

	cfg := config.GetConfig()
	logging.Setup(cfg.App.Env, cfg.App.LogLevel)

	if err := database.Migrate(config.DB); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	if err := database.SeedSuperadmin(config.DB, cfg.Superadmin.Username, cfg.Superadmin.Password, cfg.Session.BcryptCost); err != nil {
		log.Fatal().Err(err).Msg("superadmin seeding failed")
	}

	store, closeStore := session.NewStore(cfg, config.DB)
	defer closeStore()

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           routes.SetupRoutes(cfg, config.DB, store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
