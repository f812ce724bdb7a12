// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"gudang/internal/domain/auth"
	"gudang/internal/domain/cashcount"
	"gudang/internal/domain/inventory"
	"gudang/internal/domain/reports"
	"gudang/internal/infrastructure/http/v1/handlers"
	"gudang/internal/infrastructure/http/v1/middleware"
	"gudang/internal/infrastructure/storage/postgres"
	"gudang/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Logger *logger.Logger

	// JWTValidator for token validation.
	JWTValidator middleware.JWTValidator

	AuthService      *auth.Service
	InventoryService *inventory.Service
	CashCountService *cashcount.Service
	ReportsService   *reports.Service

	// Pool is nil when running on the in-memory store.
	Pool *postgres.Pool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters).
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	// Health endpoints, no auth.
	health := handlers.NewHealthHandler(cfg.Pool)
	router.GET("/healthz", health.Live)
	router.GET("/readyz", health.Ready)

	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
	goodsIn := handlers.NewGoodsInHandler(base, cfg.InventoryService)
	goodsOut := handlers.NewGoodsOutHandler(base, cfg.InventoryService)
	stock := handlers.NewStockHandler(base, cfg.InventoryService)
	cashCount := handlers.NewCashCountHandler(base, cfg.CashCountService)
	reportsHandler := handlers.NewReportsHandler(base, cfg.ReportsService)

	api := router.Group("/api/v1")

	// Public.
	api.POST("/auth/login", authHandler.Login)

	// Authenticated.
	authed := api.Group("")
	authed.Use(middleware.Auth(cfg.JWTValidator))
	{
		authed.GET("/goods-in", goodsIn.List)
		authed.POST("/goods-in", goodsIn.Create)
		authed.PUT("/goods-in/:id", goodsIn.Update)
		authed.DELETE("/goods-in/:id", goodsIn.Delete)

		authed.GET("/goods-out", goodsOut.List)
		authed.POST("/goods-out", goodsOut.Create)
		authed.DELETE("/goods-out/:id", goodsOut.Delete)

		authed.GET("/stock", stock.Summary)
		authed.GET("/stock/query", stock.Query)

		authed.GET("/cash-opname", cashCount.List)
		authed.GET("/cash-opname/denominations", cashCount.Denominations)
		authed.POST("/cash-opname", cashCount.Create)
		authed.DELETE("/cash-opname/:id", cashCount.Delete)
	}

	// Admin only.
	admin := authed.Group("")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/users", authHandler.ListUsers)
		admin.POST("/users", authHandler.CreateUser)
		admin.PUT("/users/:id", authHandler.UpdateUser)
		admin.DELETE("/users/:id", authHandler.DeleteUser)

		admin.GET("/reports/movements", reportsHandler.Movements)
		admin.GET("/reports/balance", reportsHandler.Balance)
	}

	return router
}
