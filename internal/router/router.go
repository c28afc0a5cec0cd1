package router

import (
	"database/sql"

	"agrostock_backend/internal/handlers"
	"agrostock_backend/internal/repositories"
	"agrostock_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup wires repositories, services and handlers and registers all
// application routes under /api/v1.
func Setup(engine *gin.Engine, db *sql.DB, lowStockThreshold float64) {
	// Repositories
	catalogRepo := repositories.NewCatalogRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// Services
	catalogService := services.NewCatalogService(catalogRepo, db)
	stockService := services.NewStockService(catalogRepo, eventRepo, db)
	reportService := services.NewReportService(reportRepo, lowStockThreshold)
	importService := services.NewImportService(catalogRepo, eventRepo, db)

	// Handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	stockHandler := handlers.NewStockHandler(stockService)
	dashboardHandler := handlers.NewDashboardHandler(reportService)
	importHandler := handlers.NewImportHandler(importService)

	apiV1 := engine.Group("/api/v1")

	SetupCatalogRoutes(apiV1, catalogHandler)
	SetupStockRoutes(apiV1, stockHandler)
	SetupHistoryRoutes(apiV1, stockHandler)
	SetupDashboardRoutes(apiV1, dashboardHandler)
	SetupImportRoutes(apiV1, importHandler)
}
