package handlers

import (
	"errors"
	"net/http"

	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/services"
	"clinic_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type SupplierHandler struct {
	supplierService services.SupplierService
}

func NewSupplierHandler(ss services.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: ss}
}

func (h *SupplierHandler) respondSupplierError(c *gin.Context, err error, action string) {
	utils.LogError(err, action+": Error from supplierService")
	switch {
	case errors.Is(err, services.ErrSupplierNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Supplier not found.", err.Error()))
	case errors.Is(err, services.ErrSupplierValidation), errors.Is(err, services.ErrDateFormat):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		respondBackendError(c, err, "Failed to "+action+".")
	}
}

// GetSuppliers lists suppliers filtered by ?search= and ?category=.
func (h *SupplierHandler) GetSuppliers(c *gin.Context) {
	category := models.SupplierCategory(c.Query("category"))
	if category != "" && !category.Valid() {
		utils.RespondValidationFailed(c, "unknown category "+string(category))
		return
	}
	suppliers := h.supplierService.ListSuppliers(services.SupplierFilter{Search: c.Query("search"), Category: category})
	c.JSON(http.StatusOK, gin.H{"data": suppliers, "total": len(suppliers), "categories": models.SupplierCategories})
}

func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	h.saveSupplier(c, "", http.StatusCreated)
}

func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	h.saveSupplier(c, c.Param("id"), http.StatusOK)
}

func (h *SupplierHandler) saveSupplier(c *gin.Context, supplierID string, status int) {
	var req services.SaveSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SaveSupplier: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}
	supplier, err := h.supplierService.SaveSupplier(c.Request.Context(), supplierID, req)
	if err != nil {
		h.respondSupplierError(c, err, "save supplier")
		return
	}
	c.JSON(status, supplier)
}

func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	if err := h.supplierService.DeleteSupplier(c.Request.Context(), c.Param("id")); err != nil {
		h.respondSupplierError(c, err, "delete supplier")
		return
	}
	c.Status(http.StatusNoContent)
}
