package router

import (
	"agrostock_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupCatalogRoutes sets up the product and variety routes.
func SetupCatalogRoutes(apiGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	apiGroup.POST("/products", catalogHandler.CreateProduct)
	apiGroup.GET("/products", catalogHandler.GetProducts)
	apiGroup.POST("/varieties", catalogHandler.CreateVariety)
	apiGroup.GET("/varieties", catalogHandler.GetVarieties)
}

// SetupStockRoutes sets up the stock ledger mutation routes.
func SetupStockRoutes(apiGroup *gin.RouterGroup, stockHandler *handlers.StockHandler) {
	harvestRoutes := apiGroup.Group("/harvests")
	{
		harvestRoutes.POST("", stockHandler.CreateHarvest)
		harvestRoutes.PUT("/:id", stockHandler.UpdateHarvest)
		harvestRoutes.DELETE("/:id", stockHandler.DeleteHarvest)
	}

	saleRoutes := apiGroup.Group("/sales")
	{
		saleRoutes.POST("", stockHandler.CreateSale)
		saleRoutes.PUT("/:id", stockHandler.UpdateSale)
		saleRoutes.DELETE("/:id", stockHandler.DeleteSale)
	}

	lossRoutes := apiGroup.Group("/losses")
	{
		lossRoutes.POST("", stockHandler.CreateLoss)
		lossRoutes.PUT("/:id", stockHandler.UpdateLoss)
		lossRoutes.DELETE("/:id", stockHandler.DeleteLoss)
	}
}

// SetupHistoryRoutes sets up the event history routes.
func SetupHistoryRoutes(apiGroup *gin.RouterGroup, stockHandler *handlers.StockHandler) {
	historyRoutes := apiGroup.Group("/history")
	{
		historyRoutes.GET("/harvests", stockHandler.GetHarvestHistory)
		historyRoutes.GET("/sales", stockHandler.GetSaleHistory)
		historyRoutes.GET("/losses", stockHandler.GetLossHistory)
	}
}

// SetupDashboardRoutes sets up the reporting routes.
func SetupDashboardRoutes(apiGroup *gin.RouterGroup, dashboardHandler *handlers.DashboardHandler) {
	dashboardRoutes := apiGroup.Group("/dashboard")
	{
		dashboardRoutes.GET("/global-stats", dashboardHandler.GetGlobalStats)
		dashboardRoutes.GET("/activity", dashboardHandler.GetActivity)
		dashboardRoutes.GET("/evolution", dashboardHandler.GetEvolution)
		dashboardRoutes.GET("/revenue-by-product", dashboardHandler.GetRevenueByProduct)
		dashboardRoutes.GET("/top-varieties", dashboardHandler.GetTopVarieties)
		dashboardRoutes.GET("/yield", dashboardHandler.GetYieldDetail)
		dashboardRoutes.GET("/alerts", dashboardHandler.GetAlerts)
		dashboardRoutes.GET("/predictions", dashboardHandler.GetPredictions)
		dashboardRoutes.GET("/trends", dashboardHandler.GetTrends)
	}
}

// SetupImportRoutes sets up the CSV import routes.
func SetupImportRoutes(apiGroup *gin.RouterGroup, importHandler *handlers.ImportHandler) {
	apiGroup.POST("/import/varieties", importHandler.ImportVarieties)
}
