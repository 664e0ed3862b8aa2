package main

import (
	"fmt"
	"os"

	"coinvault/internal/config"
	"coinvault/internal/database"
	"coinvault/internal/logger"
	"coinvault/internal/server"
)

// @title           CoinVault API
// @version         1.0
// @description     CoinVault is a crypto investment platform: users deposit simulated crypto assets, open tiered interest-accruing investments, and withdraw after admin review.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()

	// Seed the admin user from configuration, if configured
	if err := database.SeedAdmin(db, appConfig); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	router := server.New(db)

	log.Infof("Starting CoinVault backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
