package main

import (
	"fmt"
	"os"

	"cashflow-validator/internal/api/handlers"
	"cashflow-validator/internal/api/middleware"
	"cashflow-validator/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	production := os.Getenv("API_ENV") == "production"

	log, err := newLogger(production)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := config.Default()
	if path := os.Getenv("VALIDATOR_CONFIG"); path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			log.Fatal("failed to load config", zap.String("path", path), zap.Error(err))
		}
		log.Info("config loaded", zap.String("path", path))
	}

	// Set up Gin router
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler(log))

	// Initialize handlers
	validateHandler := handlers.NewValidateHandler(cfg, log)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/validate", validateHandler.RunValidation)
		api.POST("/compare", validateHandler.CompareVersions)
		api.GET("/columns", validateHandler.ListColumns)
	}

	// Start server
	addr := fmt.Sprintf(":%s", port)
	log.Info("starting API server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
