package handlers

import (
	"errors"
	"net/http"

	"clinic_crm_backend/internal/analytics"
	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/services"
	"clinic_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// FunnelHandler serves the sales pipeline board and its deals.
type FunnelHandler struct {
	dealService services.DealService
}

func NewFunnelHandler(ds services.DealService) *FunnelHandler {
	return &FunnelHandler{dealService: ds}
}

func (h *FunnelHandler) respondDealError(c *gin.Context, err error, action string) {
	utils.LogError(err, action+": Error from dealService")
	switch {
	case errors.Is(err, services.ErrDealNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Deal not found.", err.Error()))
	case errors.Is(err, services.ErrDealValidation), errors.Is(err, services.ErrDateFormat):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		respondBackendError(c, err, "Failed to "+action+".")
	}
}

func (h *FunnelHandler) GetStages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": models.FunnelStages})
}

// GetBoard returns the deals grouped by stage plus the pipeline total.
func (h *FunnelHandler) GetBoard(c *gin.Context) {
	deals := h.dealService.ListDeals()
	c.JSON(http.StatusOK, gin.H{
		"columns":        h.dealService.Board(),
		"pipeline_value": analytics.PipelineValue(deals),
		"total":          len(deals),
	})
}

func (h *FunnelHandler) CreateDeal(c *gin.Context) {
	h.saveDeal(c, "", http.StatusCreated)
}

func (h *FunnelHandler) UpdateDeal(c *gin.Context) {
	h.saveDeal(c, c.Param("id"), http.StatusOK)
}

func (h *FunnelHandler) saveDeal(c *gin.Context, dealID string, status int) {
	var req services.SaveDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SaveDeal: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}
	deal, err := h.dealService.SaveDeal(c.Request.Context(), dealID, req)
	if err != nil {
		h.respondDealError(c, err, "save deal")
		return
	}
	c.JSON(status, deal)
}

// MoveDeal drops a deal into another stage column.
func (h *FunnelHandler) MoveDeal(c *gin.Context) {
	var req struct {
		StageID string `json:"stage_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}
	deal, err := h.dealService.MoveDeal(c.Request.Context(), c.Param("id"), req.StageID)
	if err != nil {
		h.respondDealError(c, err, "move deal")
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (h *FunnelHandler) DeleteDeal(c *gin.Context) {
	if err := h.dealService.DeleteDeal(c.Request.Context(), c.Param("id")); err != nil {
		h.respondDealError(c, err, "delete deal")
		return
	}
	c.Status(http.StatusNoContent)
}
