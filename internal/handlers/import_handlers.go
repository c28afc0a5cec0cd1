package handlers

import (
	"net/http"

	"agrostock_backend/internal/services"
	"agrostock_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ImportHandler holds the CSV import service.
type ImportHandler struct {
	importService services.ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(is services.ImportService) *ImportHandler {
	return &ImportHandler{importService: is}
}

// ImportVarieties handles POST /import/varieties with a multipart "file" field.
func (h *ImportHandler) ImportVarieties(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondValidationFailed(c, "no file provided")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.LogError(err, "ImportVarieties: failed to open upload")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to read uploaded file", ""))
		return
	}
	defer file.Close()

	summary, err := h.importService.ImportVarieties(file)
	if err != nil {
		respondServiceError(c, err, "ImportVarieties")
		return
	}

	response := gin.H{"success": true, "imported_count": summary.ImportedCount}
	if len(summary.Errors) > 0 {
		response["errors"] = summary.Errors
	}
	c.JSON(http.StatusOK, response)
}
