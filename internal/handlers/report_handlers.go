package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"clinic_crm_backend/internal/fixtures"
	"clinic_crm_backend/internal/insights"
	"clinic_crm_backend/internal/services"
	"clinic_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves the dashboard, the analytic reports and their exports.
type ReportHandler struct {
	reportService services.ReportService
	now           func() time.Time
}

func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs, now: time.Now}
}

// GetDashboardSummary provides the headline cards of the dashboard.
func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.reportService.Dashboard())
}

func (h *ReportHandler) GetPatientAnalytics(c *gin.Context) {
	c.JSON(http.StatusOK, h.reportService.Patients())
}

func (h *ReportHandler) GetMarketingReport(c *gin.Context) {
	c.JSON(http.StatusOK, h.reportService.Marketing())
}

func (h *ReportHandler) GetOperationsReport(c *gin.Context) {
	c.JSON(http.StatusOK, h.reportService.Operations())
}

func (h *ReportHandler) ExportPatientAnalytics(c *gin.Context) {
	h.sendWorkbook(c, "analytics", h.reportService.ExportPatients)
}

func (h *ReportHandler) ExportOperationsReport(c *gin.Context) {
	h.sendWorkbook(c, "operacional", h.reportService.ExportOperations)
}

func (h *ReportHandler) sendWorkbook(c *gin.Context, name string, build func() ([]byte, error)) {
	data, err := build()
	if err != nil {
		utils.RespondInternalError(c, err, "Failed to generate "+name+" export.")
		return
	}
	filename := fmt.Sprintf("relatorio-%s-%s.xlsx", name, h.now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GetInsights asks the text generator for strategic actions on one screen's data.
func (h *ReportHandler) GetInsights(c *gin.Context) {
	result, err := h.reportService.Insights(c.Request.Context(), insights.Kind(c.Param("kind")))
	if err != nil {
		respondInsightError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func respondInsightError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, insights.ErrInFlight):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeInFlight, "A request of this kind is already running.", err.Error()))
	case errors.Is(err, services.ErrUnknownInsightKind):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Unknown insight kind.", err.Error()))
	default:
		utils.RespondInternalError(c, err, "Failed to generate insights.")
	}
}

// ChatHandler serves the inbox and reply suggestions.
type ChatHandler struct {
	reportService services.ReportService
	fixtures      *fixtures.Provider
}

func NewChatHandler(rs services.ReportService, provider *fixtures.Provider) *ChatHandler {
	return &ChatHandler{reportService: rs, fixtures: provider}
}

// GetConversations returns the inbox. There is no messaging integration, so the
// list is placeholder data or empty.
func (h *ChatHandler) GetConversations(c *gin.Context) {
	section := h.fixtures.Conversations()
	if section == nil {
		section = &fixtures.Section[[]fixtures.Conversation]{Data: []fixtures.Conversation{}}
	}
	c.JSON(http.StatusOK, section)
}

func (h *ChatHandler) SuggestReply(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}
	result, err := h.reportService.SuggestReply(c.Request.Context(), req.Message)
	if err != nil {
		respondInsightError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
