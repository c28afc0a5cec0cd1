package handlers

import (
	"net/http"

	"agrostock_backend/internal/services"
	"agrostock_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler holds the catalog service.
type CatalogHandler struct {
	catalogService services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cs services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

// CreateProduct handles POST /products.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	id, err := h.catalogService.CreateProduct(req)
	if err != nil {
		respondServiceError(c, err, "CreateProduct")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": id})
}

// GetProducts handles GET /products.
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	products, err := h.catalogService.GetProducts()
	if err != nil {
		respondServiceError(c, err, "GetProducts")
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateVariety handles POST /varieties.
func (h *CatalogHandler) CreateVariety(c *gin.Context) {
	var req services.CreateVarietyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	id, err := h.catalogService.CreateVariety(req)
	if err != nil {
		respondServiceError(c, err, "CreateVariety")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": id})
}

// GetVarieties handles GET /varieties.
func (h *CatalogHandler) GetVarieties(c *gin.Context) {
	varieties, err := h.catalogService.GetVarieties()
	if err != nil {
		respondServiceError(c, err, "GetVarieties")
		return
	}
	c.JSON(http.StatusOK, varieties)
}
