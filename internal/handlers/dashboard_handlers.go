package handlers

import (
	"net/http"

	"agrostock_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// DashboardHandler holds the report service.
type DashboardHandler struct {
	reportService services.ReportService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(rs services.ReportService) *DashboardHandler {
	return &DashboardHandler{reportService: rs}
}

// GetGlobalStats handles GET /dashboard/global-stats.
func (h *DashboardHandler) GetGlobalStats(c *gin.Context) {
	stats, err := h.reportService.GlobalStats(c.Query("period"))
	if err != nil {
		respondServiceError(c, err, "GetGlobalStats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetActivity handles GET /dashboard/activity.
func (h *DashboardHandler) GetActivity(c *gin.Context) {
	series, err := h.reportService.DailyActivity(c.Query("period"))
	if err != nil {
		respondServiceError(c, err, "GetActivity")
		return
	}
	c.JSON(http.StatusOK, series)
}

// GetEvolution handles GET /dashboard/evolution.
func (h *DashboardHandler) GetEvolution(c *gin.Context) {
	series, err := h.reportService.SalesEvolution(c.Query("period"))
	if err != nil {
		respondServiceError(c, err, "GetEvolution")
		return
	}
	c.JSON(http.StatusOK, series)
}

// GetRevenueByProduct handles GET /dashboard/revenue-by-product.
func (h *DashboardHandler) GetRevenueByProduct(c *gin.Context) {
	totals, err := h.reportService.RevenueByProduct(c.Query("period"))
	if err != nil {
		respondServiceError(c, err, "GetRevenueByProduct")
		return
	}
	c.JSON(http.StatusOK, totals)
}

// GetTopVarieties handles GET /dashboard/top-varieties.
func (h *DashboardHandler) GetTopVarieties(c *gin.Context) {
	totals, err := h.reportService.TopVarieties(c.Query("period"))
	if err != nil {
		respondServiceError(c, err, "GetTopVarieties")
		return
	}
	c.JSON(http.StatusOK, totals)
}

// GetYieldDetail handles GET /dashboard/yield.
func (h *DashboardHandler) GetYieldDetail(c *gin.Context) {
	details, err := h.reportService.YieldDetail(c.Query("search"), c.Query("period"))
	if err != nil {
		respondServiceError(c, err, "GetYieldDetail")
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetAlerts handles GET /dashboard/alerts.
func (h *DashboardHandler) GetAlerts(c *gin.Context) {
	alerts, err := h.reportService.LowStockAlerts()
	if err != nil {
		respondServiceError(c, err, "GetAlerts")
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// GetPredictions handles GET /dashboard/predictions: depletion forecasts
// for varieties that are not in the normal tier, most urgent first.
func (h *DashboardHandler) GetPredictions(c *gin.Context) {
	forecasts, err := h.reportService.UrgentForecasts()
	if err != nil {
		respondServiceError(c, err, "GetPredictions")
		return
	}
	c.JSON(http.StatusOK, forecasts)
}

// GetTrends handles GET /dashboard/trends.
func (h *DashboardHandler) GetTrends(c *gin.Context) {
	trends, err := h.reportService.SalesTrends()
	if err != nil {
		respondServiceError(c, err, "GetTrends")
		return
	}
	c.JSON(http.StatusOK, trends)
}
