package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskhub/backend/internal/auth"
	"taskhub/backend/internal/cache"
	"taskhub/backend/internal/config"
	"taskhub/backend/internal/handlers"
	"taskhub/backend/internal/middleware"
	"taskhub/backend/internal/monitoring"
	"taskhub/backend/internal/services"
)

// newRouter wires services, middleware and handlers onto a gin engine.
// main and the integration tests share it, so both run the same stack.
func newRouter(cfg *config.Config, db *gorm.DB, taskCache *cache.RedisCache, checker *monitoring.HealthChecker) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	hasher := auth.NewPasswordHasher(cfg.Auth.BCryptCost)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience, cfg.TokenTTL())

	authService := services.NewAuthService(hasher, tokens)
	taskService := services.NewCachedTaskService(services.NewTaskService(), taskCache)

	authHandler := handlers.NewAuthHandler(db, authService)
	taskHandler := handlers.NewTaskHandler(db, taskService)
	healthHandler := handlers.NewHealthHandler(checker, taskCache)

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RecoveryWithLog())
	router.Use(cors.New(corsConfig(cfg)))

	router.GET("/health", healthHandler.Health)

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	tasks := router.Group("/tasks")
	tasks.Use(middleware.AuthMiddleware(tokens))
	{
		tasks.GET("", taskHandler.GetTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("/:id", taskHandler.GetTaskByID)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()

	origins := cfg.CORSOrigins()
	if len(origins) == 1 && origins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")

	return corsCfg
}
