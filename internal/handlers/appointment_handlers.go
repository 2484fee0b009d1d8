package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"clinic_crm_backend/internal/calendar"
	"clinic_crm_backend/internal/services"
	"clinic_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler serves appointments and the calendar views built from them.
type AppointmentHandler struct {
	appointmentService services.AppointmentService
}

func NewAppointmentHandler(as services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: as}
}

func (h *AppointmentHandler) respondAppointmentError(c *gin.Context, err error, action string) {
	utils.LogError(err, action+": Error from appointmentService")
	switch {
	case errors.Is(err, services.ErrAppointmentNotFound), errors.Is(err, services.ErrClientNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), err.Error()))
	case errors.Is(err, services.ErrAppointmentValidation), errors.Is(err, services.ErrDateFormat):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	case errors.Is(err, services.ErrReminderNotEligible):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Reminder cannot be sent for this appointment.", err.Error()))
	default:
		respondBackendError(c, err, "Failed to "+action+".")
	}
}

func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	apps := h.appointmentService.ListAppointments(services.AppointmentFilter{
		Date:     c.Query("date"),
		ClientID: c.Query("client_id"),
	})
	c.JSON(http.StatusOK, gin.H{"data": apps, "total": len(apps)})
}

func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	app, err := h.appointmentService.GetAppointment(c.Param("id"))
	if err != nil {
		h.respondAppointmentError(c, err, "fetch appointment")
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	h.saveAppointment(c, "", http.StatusCreated)
}

func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	h.saveAppointment(c, c.Param("id"), http.StatusOK)
}

func (h *AppointmentHandler) saveAppointment(c *gin.Context, appointmentID string, status int) {
	var req services.SaveAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SaveAppointment: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}
	app, err := h.appointmentService.SaveAppointment(c.Request.Context(), appointmentID, req)
	if err != nil {
		h.respondAppointmentError(c, err, "save appointment")
		return
	}
	c.JSON(status, app)
}

func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	if err := h.appointmentService.DeleteAppointment(c.Request.Context(), c.Param("id")); err != nil {
		h.respondAppointmentError(c, err, "delete appointment")
		return
	}
	c.Status(http.StatusNoContent)
}

// RescheduleAppointment is the drop of a dragged appointment onto a day-view slot.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req struct {
		Slot string `json:"slot" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}
	app, err := h.appointmentService.Reschedule(c.Request.Context(), c.Param("id"), req.Slot)
	if err != nil {
		h.respondAppointmentError(c, err, "reschedule appointment")
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *AppointmentHandler) SendReminder(c *gin.Context) {
	reminder, err := h.appointmentService.SendReminder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondAppointmentError(c, err, "send reminder")
		return
	}
	c.JSON(http.StatusOK, reminder)
}

func (h *AppointmentHandler) GetPendingReminders(c *gin.Context) {
	apps := h.appointmentService.PendingReminders()
	c.JSON(http.StatusOK, gin.H{"data": apps, "total": len(apps)})
}

// monthCell tells the client which view a click on the cell opens.
type monthCell struct {
	calendar.Cell
	Opens calendar.Mode `json:"opens"`
}

// GetCalendar renders ?mode=day|week|month around ?date=.
func (h *AppointmentHandler) GetCalendar(c *gin.Context) {
	mode := calendar.Mode(c.DefaultQuery("mode", string(calendar.ModeDay)))
	date := c.Query("date")
	if date == "" {
		utils.RespondValidationFailed(c, "date is required")
		return
	}

	var (
		view any
		err  error
	)
	switch mode {
	case calendar.ModeDay:
		view, err = h.appointmentService.DayView(date)
	case calendar.ModeWeek:
		view, err = h.appointmentService.WeekView(date)
	case calendar.ModeMonth:
		var cells []calendar.Cell
		cells, err = h.appointmentService.MonthView(date)
		out := make([]monthCell, len(cells))
		for i, cell := range cells {
			out[i] = monthCell{Cell: cell, Opens: calendar.DayClick(cell)}
		}
		view = out
	default:
		utils.RespondValidationFailed(c, calendar.ErrInvalidMode.Error())
		return
	}
	if err != nil {
		h.respondAppointmentError(c, err, "render calendar")
		return
	}
	c.JSON(http.StatusOK, gin.H{"mode": mode, "date": date, "view": view})
}

// NavigateCalendar moves ?date= one step in ?mode= towards ?direction= (1 or -1).
func (h *AppointmentHandler) NavigateCalendar(c *gin.Context) {
	direction, err := strconv.Atoi(c.DefaultQuery("direction", "1"))
	if err != nil {
		utils.RespondValidationFailed(c, "direction must be an integer")
		return
	}
	mode := calendar.Mode(c.DefaultQuery("mode", string(calendar.ModeDay)))
	next, err := h.appointmentService.Navigate(c.Query("date"), mode, direction)
	if err != nil {
		h.respondAppointmentError(c, err, "navigate calendar")
		return
	}
	c.JSON(http.StatusOK, gin.H{"mode": mode, "date": next})
}

// GetDaySlots lists the half-hour slot labels of the day grid.
func (h *AppointmentHandler) GetDaySlots(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"slots": calendar.DaySlots()})
}
