package handlers

import (
	"net/http"

	"agrostock_backend/internal/models"
	"agrostock_backend/internal/services"
	"agrostock_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StockHandler holds the stock ledger service.
type StockHandler struct {
	stockService services.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(ss services.StockService) *StockHandler {
	return &StockHandler{stockService: ss}
}

// CreateHarvest handles POST /harvests.
func (h *StockHandler) CreateHarvest(c *gin.Context) {
	var req services.RecordHarvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if err := h.stockService.RecordHarvest(req); err != nil {
		respondServiceError(c, err, "CreateHarvest")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// CreateSale handles POST /sales.
func (h *StockHandler) CreateSale(c *gin.Context) {
	var req services.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if err := h.stockService.RecordSale(req); err != nil {
		respondServiceError(c, err, "CreateSale")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// CreateLoss handles POST /losses.
func (h *StockHandler) CreateLoss(c *gin.Context) {
	var req services.RecordLossRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if err := h.stockService.RecordLoss(req); err != nil {
		respondServiceError(c, err, "CreateLoss")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// UpdateHarvest handles PUT /harvests/:id.
func (h *StockHandler) UpdateHarvest(c *gin.Context) { h.updateEvent(c, models.KindHarvest) }

// UpdateSale handles PUT /sales/:id.
func (h *StockHandler) UpdateSale(c *gin.Context) { h.updateEvent(c, models.KindSale) }

// UpdateLoss handles PUT /losses/:id.
func (h *StockHandler) UpdateLoss(c *gin.Context) { h.updateEvent(c, models.KindLoss) }

// DeleteHarvest handles DELETE /harvests/:id.
func (h *StockHandler) DeleteHarvest(c *gin.Context) { h.deleteEvent(c, models.KindHarvest) }

// DeleteSale handles DELETE /sales/:id.
func (h *StockHandler) DeleteSale(c *gin.Context) { h.deleteEvent(c, models.KindSale) }

// DeleteLoss handles DELETE /losses/:id.
func (h *StockHandler) DeleteLoss(c *gin.Context) { h.deleteEvent(c, models.KindLoss) }

func (h *StockHandler) updateEvent(c *gin.Context, kind models.EventKind) {
	eventID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "invalid event id")
		return
	}
	var req services.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if err := h.stockService.UpdateEvent(kind, eventID, req.QuantityKg); err != nil {
		respondServiceError(c, err, "UpdateEvent")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *StockHandler) deleteEvent(c *gin.Context, kind models.EventKind) {
	eventID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "invalid event id")
		return
	}

	if err := h.stockService.DeleteEvent(kind, eventID); err != nil {
		respondServiceError(c, err, "DeleteEvent")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetHarvestHistory handles GET /history/harvests.
func (h *StockHandler) GetHarvestHistory(c *gin.Context) {
	records, err := h.stockService.GetHarvestHistory()
	if err != nil {
		respondServiceError(c, err, "GetHarvestHistory")
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetSaleHistory handles GET /history/sales.
func (h *StockHandler) GetSaleHistory(c *gin.Context) {
	records, err := h.stockService.GetSaleHistory()
	if err != nil {
		respondServiceError(c, err, "GetSaleHistory")
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetLossHistory handles GET /history/losses.
func (h *StockHandler) GetLossHistory(c *gin.Context) {
	records, err := h.stockService.GetLossHistory()
	if err != nil {
		respondServiceError(c, err, "GetLossHistory")
		return
	}
	c.JSON(http.StatusOK, records)
}
