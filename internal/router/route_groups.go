package router

import (
	"clinic_crm_backend/internal/handlers"
	"clinic_crm_backend/internal/middleware"
	"clinic_crm_backend/internal/models"

	"github.com/gin-gonic/gin"
)

var (
	adminOnly      = middleware.RoleAuthMiddleware(string(models.RoleAdmin))
	financeWriters = middleware.RoleAuthMiddleware(string(models.RoleAdmin), string(models.RoleFinance))
)

func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.LoginUser)
}

func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.LogoutUser)
	group.GET("/me", authHandler.GetCurrentUser)
}

func SetupSessionRoutes(authenticatedGroup *gin.RouterGroup, sessionHandler *handlers.SessionHandler) {
	authenticatedGroup.POST("/session/bootstrap", sessionHandler.Bootstrap)
}

func SetupDashboardRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	authenticatedGroup.GET("/dashboard", reportHandler.GetDashboardSummary)
}

// SetupClientRoutes sets up the client routes.
func SetupClientRoutes(authenticatedGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := authenticatedGroup.Group("/clients")
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
		clientRoutes.DELETE("/:id", clientHandler.DeleteClient)
		clientRoutes.POST("/:id/clinical-records", clientHandler.AddClinicalRecord)
		clientRoutes.POST("/:id/photos", clientHandler.UploadPhotos)
	}
}

func SetupAppointmentRoutes(authenticatedGroup *gin.RouterGroup, appointmentHandler *handlers.AppointmentHandler) {
	appointmentRoutes := authenticatedGroup.Group("/appointments")
	{
		appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
		appointmentRoutes.GET("", appointmentHandler.GetAppointments)
		appointmentRoutes.GET("/reminders", appointmentHandler.GetPendingReminders)
		appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
		appointmentRoutes.PUT("/:id", appointmentHandler.UpdateAppointment)
		appointmentRoutes.DELETE("/:id", appointmentHandler.DeleteAppointment)
		appointmentRoutes.PATCH("/:id/reschedule", appointmentHandler.RescheduleAppointment)
		appointmentRoutes.POST("/:id/reminder", appointmentHandler.SendReminder)
	}
}

func SetupCalendarRoutes(authenticatedGroup *gin.RouterGroup, appointmentHandler *handlers.AppointmentHandler) {
	calendarRoutes := authenticatedGroup.Group("/calendar")
	{
		calendarRoutes.GET("", appointmentHandler.GetCalendar)
		calendarRoutes.GET("/navigate", appointmentHandler.NavigateCalendar)
		calendarRoutes.GET("/slots", appointmentHandler.GetDaySlots)
	}
}

func SetupFunnelRoutes(authenticatedGroup *gin.RouterGroup, funnelHandler *handlers.FunnelHandler) {
	funnelRoutes := authenticatedGroup.Group("/funnel")
	{
		funnelRoutes.GET("/stages", funnelHandler.GetStages)
		funnelRoutes.GET("/board", funnelHandler.GetBoard)
		funnelRoutes.POST("/deals", funnelHandler.CreateDeal)
		funnelRoutes.PUT("/deals/:id", funnelHandler.UpdateDeal)
		funnelRoutes.PATCH("/deals/:id/stage", funnelHandler.MoveDeal)
		funnelRoutes.DELETE("/deals/:id", funnelHandler.DeleteDeal)
	}
}

// SetupFinanceRoutes lets every role read the ledger; only ADMIN and FINANCE write it.
func SetupFinanceRoutes(authenticatedGroup *gin.RouterGroup, financeHandler *handlers.FinanceHandler) {
	financeRoutes := authenticatedGroup.Group("/finance")
	{
		financeRoutes.GET("/transactions", financeHandler.GetTransactions)
		financeRoutes.GET("/summary", financeHandler.GetSummary)
		financeRoutes.GET("/packages", financeHandler.GetPackages)

		writes := financeRoutes.Group("")
		writes.Use(financeWriters)
		{
			writes.POST("/transactions", financeHandler.CreateTransaction)
			writes.PUT("/transactions/:id", financeHandler.UpdateTransaction)
			writes.DELETE("/transactions/:id", financeHandler.DeleteTransaction)
			writes.POST("/packages", financeHandler.CreatePackage)
			writes.PUT("/packages/:id", financeHandler.UpdatePackage)
			writes.DELETE("/packages/:id", financeHandler.DeletePackage)
		}
	}
}

func SetupSupplierRoutes(authenticatedGroup *gin.RouterGroup, supplierHandler *handlers.SupplierHandler) {
	supplierRoutes := authenticatedGroup.Group("/suppliers")
	{
		supplierRoutes.GET("", supplierHandler.GetSuppliers)
		supplierRoutes.POST("", supplierHandler.CreateSupplier)
		supplierRoutes.PUT("/:id", supplierHandler.UpdateSupplier)
		supplierRoutes.DELETE("/:id", supplierHandler.DeleteSupplier)
	}
}

// SetupStaffRoutes sets up the staff routes. Writes are ADMIN-only.
func SetupStaffRoutes(authenticatedGroup *gin.RouterGroup, staffHandler *handlers.StaffHandler) {
	staffRoutes := authenticatedGroup.Group("/staff")
	{
		staffRoutes.GET("", staffHandler.GetStaffMembers)
		staffRoutes.POST("", adminOnly, staffHandler.CreateStaffMember)
		staffRoutes.PUT("/:id", adminOnly, staffHandler.UpdateStaffMember)
		staffRoutes.DELETE("/:id", adminOnly, staffHandler.DeleteStaffMember)
	}
}

func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	{
		reportRoutes.GET("/analytics", reportHandler.GetPatientAnalytics)
		reportRoutes.GET("/analytics/export", reportHandler.ExportPatientAnalytics)
		reportRoutes.GET("/marketing", reportHandler.GetMarketingReport)
		reportRoutes.GET("/operations", reportHandler.GetOperationsReport)
		reportRoutes.GET("/operations/export", reportHandler.ExportOperationsReport)
	}
	authenticatedGroup.POST("/insights/:kind", reportHandler.GetInsights)
}

func SetupChatRoutes(authenticatedGroup *gin.RouterGroup, chatHandler *handlers.ChatHandler) {
	chatRoutes := authenticatedGroup.Group("/chat")
	{
		chatRoutes.GET("/conversations", chatHandler.GetConversations)
		chatRoutes.POST("/suggest-reply", chatHandler.SuggestReply)
	}
}

// SetupSettingsRoutes sets up the appearance settings. Every role reads the
// theme; only ADMIN changes it.
func SetupSettingsRoutes(authenticatedGroup *gin.RouterGroup, settingHandler *handlers.SettingHandler) {
	settingsRoutes := authenticatedGroup.Group("/settings")
	{
		settingsRoutes.GET("/appearance", settingHandler.GetAppearance)
		settingsRoutes.PUT("/appearance", adminOnly, settingHandler.UpdateAppearance)
		settingsRoutes.POST("/appearance/reset", adminOnly, settingHandler.ResetAppearance)
	}
}
