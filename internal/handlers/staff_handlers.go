package handlers

import (
	"errors"
	"net/http"

	"clinic_crm_backend/internal/services"
	"clinic_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StaffHandler holds the staff service.
type StaffHandler struct {
	staffService services.StaffService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(ss services.StaffService) *StaffHandler {
	return &StaffHandler{staffService: ss}
}

func (h *StaffHandler) respondStaffError(c *gin.Context, err error, action string) {
	utils.LogError(err, action+": Error from staffService")
	switch {
	case errors.Is(err, services.ErrStaffNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found.", err.Error()))
	case errors.Is(err, services.ErrEmailExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already exists.", err.Error()))
	case errors.Is(err, services.ErrStaffValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		respondBackendError(c, err, "Failed to "+action+".")
	}
}

// GetStaffMembers lists every staff profile.
func (h *StaffHandler) GetStaffMembers(c *gin.Context) {
	staff := h.staffService.ListStaff()
	c.JSON(http.StatusOK, gin.H{"data": staff, "total": len(staff)})
}

// CreateStaffMember handles the creation of a new staff member.
func (h *StaffHandler) CreateStaffMember(c *gin.Context) {
	h.saveStaffMember(c, "", http.StatusCreated)
}

// UpdateStaffMember replaces a staff profile.
func (h *StaffHandler) UpdateStaffMember(c *gin.Context) {
	h.saveStaffMember(c, c.Param("id"), http.StatusOK)
}

func (h *StaffHandler) saveStaffMember(c *gin.Context, staffID string, status int) {
	var req services.SaveStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SaveStaffMember: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}
	user, err := h.staffService.SaveStaff(c.Request.Context(), staffID, req)
	if err != nil {
		h.respondStaffError(c, err, "save staff member")
		return
	}
	c.JSON(status, user)
}

// DeleteStaffMember handles deleting a staff member.
func (h *StaffHandler) DeleteStaffMember(c *gin.Context) {
	if err := h.staffService.DeleteStaff(c.Request.Context(), c.Param("id")); err != nil {
		h.respondStaffError(c, err, "delete staff member")
		return
	}
	c.Status(http.StatusNoContent)
}
