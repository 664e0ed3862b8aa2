// Package server wires services, handlers, middleware, and routes into a
// runnable HTTP stack.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"coinvault/internal/handlers"
	"coinvault/internal/middleware"
	"coinvault/internal/services"
	"coinvault/internal/validator"

	_ "coinvault/internal/docs" // Import swagger docs
)

// New builds the full gin engine over the given database handle. Both the
// production binary and the integration tests construct the router through
// this function, so routes and binding-validator registration can never
// diverge between the two.
func New(db *gorm.DB) *gin.Engine {
	// Custom binding tags (asset, tier, positive_amount, document_type) must
	// be registered before any handler binds a payload; the binding engine
	// panics on an unknown tag.
	validator.Register()

	// Services
	userService := services.NewUserService(db)
	balanceService := services.NewBalanceService(db)
	investmentService := services.NewInvestmentService(db, balanceService)
	kycService := services.NewKYCService(db)
	depositService := services.NewDepositService(db, balanceService)
	withdrawalService := services.NewWithdrawalService(db, balanceService, kycService)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	balanceHandler := handlers.NewBalanceHandler(balanceService, depositService, withdrawalService, auditService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService, auditService)
	kycHandler := handlers.NewKYCHandler(kycService, auditService)
	adminHandler := handlers.NewAdminHandler(depositService, withdrawalService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Tier table is public so the landing page can render offers
	v1.GET("/tiers", investmentHandler.GetTiers)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Balance routes
	protected.GET("/balance", balanceHandler.GetBalance)

	// Deposit routes
	deposits := protected.Group("/deposits")
	deposits.POST("", balanceHandler.SubmitDeposit)
	deposits.GET("", balanceHandler.GetDeposits)

	// Withdrawal routes
	withdrawals := protected.Group("/withdrawals")
	withdrawals.POST("", balanceHandler.SubmitWithdrawal)
	withdrawals.GET("", balanceHandler.GetWithdrawals)

	// Investment routes
	investments := protected.Group("/investments")
	investments.POST("/preview", investmentHandler.Preview)
	investments.POST("", investmentHandler.Open)
	investments.GET("", investmentHandler.GetUserInvestments)
	investments.GET("/:id", investmentHandler.GetInvestmentByID)
	investments.GET("/:id/growth", investmentHandler.GetGrowthSeries)

	// KYC routes
	kyc := protected.Group("/kyc")
	kyc.POST("", kycHandler.Submit)
	kyc.GET("", kycHandler.GetStatus)

	// Admin routes. Role is re-checked against the database per request.
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin(userService))

	admin.GET("/kyc", kycHandler.ListRequests)
	admin.PUT("/kyc/:id/verify", kycHandler.Verify)
	admin.PUT("/kyc/:id/reject", kycHandler.Reject)

	admin.GET("/deposits", adminHandler.ListDeposits)
	admin.PUT("/deposits/:id/approve", adminHandler.ApproveDeposit)
	admin.PUT("/deposits/:id/reject", adminHandler.RejectDeposit)

	admin.GET("/withdrawals", adminHandler.ListWithdrawals)
	admin.PUT("/withdrawals/:id/complete", adminHandler.CompleteWithdrawal)
	admin.PUT("/withdrawals/:id/reject", adminHandler.RejectWithdrawal)

	admin.GET("/investments", investmentHandler.ListInvestments)
	admin.PUT("/investments/:id/complete", investmentHandler.Complete)
	admin.PUT("/investments/:id/cancel", investmentHandler.Cancel)

	return router
}
