package handlers

import (
	"net/http"

	"clinic_crm_backend/internal/services"
	"clinic_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService services.SessionService
}

func NewSessionHandler(ss services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: ss}
}

// Bootstrap performs the one-time data load, or reports the existing one.
func (h *SessionHandler) Bootstrap(c *gin.Context) {
	info, err := h.sessionService.Bootstrap(c.Request.Context())
	if err != nil {
		utils.LogError(err, "Bootstrap: Error from sessionService.Bootstrap")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeBackendUnavailable, "Could not load clinic data. Try again.", err.Error()))
		return
	}
	c.JSON(http.StatusOK, info)
}

// SetupHandler reports whether the backend and text generator are configured.
type SetupHandler struct {
	missingKeys     []string
	driver          string
	genAIConfigured bool
	fixturesEnabled bool
}

func NewSetupHandler(missingKeys []string, driver string, genAIConfigured, fixturesEnabled bool) *SetupHandler {
	if missingKeys == nil {
		missingKeys = []string{}
	}
	return &SetupHandler{missingKeys: missingKeys, driver: driver, genAIConfigured: genAIConfigured, fixturesEnabled: fixturesEnabled}
}

func (h *SetupHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"configured":       len(h.missingKeys) == 0,
		"backend_driver":   h.driver,
		"missing_keys":     h.missingKeys,
		"genai_configured": h.genAIConfigured,
		"fixtures_enabled": h.fixturesEnabled,
	})
}
