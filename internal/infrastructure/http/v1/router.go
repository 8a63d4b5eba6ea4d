// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockledger/internal/domain/auth"
	"stockledger/internal/domain/catalogs/supplier"
	"stockledger/internal/domain/catalogs/warehouse"
	"stockledger/internal/domain/movement"
	"stockledger/internal/domain/stock"
	"stockledger/internal/infrastructure/http/v1/handlers"
	"stockledger/internal/infrastructure/http/v1/middleware"
	"stockledger/internal/infrastructure/storage/postgres"
	"stockledger/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	JWTValidator middleware.JWTValidator
	AuthService  *auth.Service

	MovementService  *movement.Service
	StockService     *stock.Service
	WarehouseService *warehouse.Service
	SupplierService  *supplier.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	// API v1
	api := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(cfg.AuthService)
		api.POST("/auth/login", authHandler.Login)

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		admin := protected.Group("")
		admin.Use(middleware.RequireAdmin())
		admin.POST("/auth/register", authHandler.Register)

		movementHandler := handlers.NewMovementHandler(cfg.MovementService)
		protected.POST("/movements", movementHandler.Register)

		stockHandler := handlers.NewStockHandler(cfg.StockService)
		protected.GET("/stock/:warehouse", stockHandler.ListByWarehouse)
		protected.GET("/stock/:warehouse/:article", stockHandler.GetBalance)

		warehouseHandler := handlers.NewWarehouseHandler(cfg.WarehouseService)
		protected.POST("/warehouses", warehouseHandler.Create)
		protected.GET("/warehouses", warehouseHandler.List)
		protected.GET("/warehouses/:code", warehouseHandler.Get)
		protected.PUT("/warehouses/:code", warehouseHandler.Update)

		supplierHandler := handlers.NewSupplierHandler(cfg.SupplierService)
		protected.POST("/suppliers", supplierHandler.Create)
		protected.GET("/suppliers", supplierHandler.List)
		protected.GET("/suppliers/:code", supplierHandler.Get)
		protected.PUT("/suppliers/:code", supplierHandler.Update)
	}

	return router
}
