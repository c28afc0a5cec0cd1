package handlers

import (
	"errors"
	"net/http"

	"agrostock_backend/internal/services"
	"agrostock_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service errors to API responses. Business-rule
// violations keep their message so the dashboard can show it verbatim;
// infrastructure failures are logged and answered generically.
func respondServiceError(c *gin.Context, err error, logContext string) {
	utils.LogError(err, logContext)

	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrDuplicateProduct),
		errors.Is(err, services.ErrEmptyImport):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
	case errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrLossExceedsStock),
		errors.Is(err, services.ErrHarvestInUse):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeConflict, err.Error(), ""))
	case errors.Is(err, services.ErrVarietyNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrEventNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), ""))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Internal server error", ""))
	}
}
