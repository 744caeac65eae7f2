package main

import (
	"fmt"

	"a-panel/internal/api/routes"
	"a-panel/internal/config"
	"a-panel/internal/logger"
	"a-panel/internal/models"
	"a-panel/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		logger.New("").Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.Server.Mode)

	// Initialize database
	if err := models.InitDB(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	// Create default user if database is empty
	authService := services.NewAuthService(cfg, log)
	if err := authService.CreateDefaultUser(); err != nil {
		log.Warn().Err(err).Msg("failed to create default user")
	}

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	r := gin.New()

	// Setup routes
	routes.SetupRoutes(r, cfg, log)

	// Run server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("starting auth server")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
