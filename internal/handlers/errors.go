package handlers

import (
	"errors"
	"net/http"

	"clinic_crm_backend/internal/repositories"
	"clinic_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondBackendError maps persistence failures that no service translated.
// The in-memory state is unchanged when these are returned.
func respondBackendError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, message, err.Error()))
	case errors.Is(err, repositories.ErrDuplicateKey):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, message, err.Error()))
	case errors.Is(err, repositories.ErrDatabaseError):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadGateway, utils.ErrCodeBackendUnavailable, message, err.Error()))
	default:
		utils.RespondInternalError(c, err, message)
	}
}
