package handlers

import (
	"errors"
	"net/http"

	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/services"
	"clinic_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SettingHandler serves the clinic appearance settings.
type SettingHandler struct {
	appearanceService services.AppearanceService
}

func NewSettingHandler(as services.AppearanceService) *SettingHandler {
	return &SettingHandler{appearanceService: as}
}

func (h *SettingHandler) GetAppearance(c *gin.Context) {
	appearance, err := h.appearanceService.GetAppearance(c.Request.Context())
	if err != nil {
		respondBackendError(c, err, "Failed to fetch appearance settings.")
		return
	}
	c.JSON(http.StatusOK, appearance)
}

func (h *SettingHandler) UpdateAppearance(c *gin.Context) {
	var req models.Appearance
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateAppearance: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}
	appearance, err := h.appearanceService.SaveAppearance(c.Request.Context(), req)
	if err != nil {
		utils.LogError(err, "UpdateAppearance: Error from appearanceService.SaveAppearance")
		if errors.Is(err, services.ErrAppearanceValidation) {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		respondBackendError(c, err, "Failed to save appearance settings.")
		return
	}
	c.JSON(http.StatusOK, appearance)
}

// ResetAppearance restores the default brand colours.
func (h *SettingHandler) ResetAppearance(c *gin.Context) {
	appearance, err := h.appearanceService.ResetAppearance(c.Request.Context())
	if err != nil {
		respondBackendError(c, err, "Failed to reset appearance settings.")
		return
	}
	c.JSON(http.StatusOK, appearance)
}
