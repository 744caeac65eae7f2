package routes

import (
	"a-panel/internal/api/handlers"
	"a-panel/internal/api/middleware"
	"a-panel/internal/config"
	"a-panel/internal/logger"
	"a-panel/internal/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, log *logger.Logger) {
	// Initialize services
	authService := services.NewAuthService(cfg, log)
	tokenService := services.NewTokenService(cfg)
	userService := services.NewUserService(authService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, tokenService, log)
	profileHandler := handlers.NewProfileHandler(userService, log)

	// Middleware
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.ErrorHandler(log))

	// Public routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "Server is running"})
		})

		api.POST("/login", authHandler.Login)
		api.POST("/refresh-token", authHandler.RefreshToken)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokenService))
	{
		protected.GET("/profile", profileHandler.GetProfile)
		protected.PUT("/profile", profileHandler.UpdateProfile)
		protected.PUT("/change-password", profileHandler.ChangePassword)

		protected.GET("/login-logs", middleware.RequireRole("admin"), authHandler.GetLoginLogs)
	}
}
