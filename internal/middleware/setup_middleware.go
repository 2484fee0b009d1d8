package middleware

import (
	"net/http"
	"strings"

	"clinic_crm_backend/internal/services"
	"clinic_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SetupGuard answers 503 SETUP_REQUIRED while backend credentials are missing.
func SetupGuard(missingKeys []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(missingKeys) == 0 {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error": utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeSetupRequired,
				"Backend is not configured", "Missing: "+strings.Join(missingKeys, ", ")),
			"missing_keys": missingKeys,
		})
	}
}

// SessionMiddleware makes sure the clinic data is loaded before a data route runs.
func SessionMiddleware(session services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.Loaded() {
			c.Next()
			return
		}
		if _, err := session.Bootstrap(c.Request.Context()); err != nil {
			utils.LogError(err, "SessionMiddleware: initial load failed")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeBackendUnavailable,
				"Could not load clinic data. Try again.", err.Error()))
			return
		}
		c.Next()
	}
}
