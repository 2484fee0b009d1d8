package router

import (
	"net/http"
	"time"

	"clinic_crm_backend/internal/handlers"
	"clinic_crm_backend/internal/middleware"
	"clinic_crm_backend/internal/services"
	"clinic_crm_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers are the route handlers of a configured server.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Session     *handlers.SessionHandler
	Client      *handlers.ClientHandler
	Appointment *handlers.AppointmentHandler
	Funnel      *handlers.FunnelHandler
	Finance     *handlers.FinanceHandler
	Supplier    *handlers.SupplierHandler
	Staff       *handlers.StaffHandler
	Setting     *handlers.SettingHandler
	Report      *handlers.ReportHandler
	Chat        *handlers.ChatHandler
}

type Options struct {
	CORSAllowedOrigins []string
	Metrics            *middleware.Metrics
	Setup              *handlers.SetupHandler
	// MissingKeys non-empty puts the server in setup mode.
	MissingKeys []string
	// FilesDir is served under /files when uploads are kept on local disk.
	FilesDir string
}

// NewEngine builds the gin engine with the middleware every route shares.
func NewEngine(opts Options) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), utils.GinLogger())
	if opts.Metrics != nil {
		engine.Use(opts.Metrics.Middleware())
		engine.GET("/metrics", opts.Metrics.Handler())
	}
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     opts.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "setup_required": len(opts.MissingKeys) > 0})
	})
	if opts.Setup != nil {
		engine.GET("/api/v1/setup", opts.Setup.GetStatus)
	}
	if opts.FilesDir != "" {
		engine.Static("/files", opts.FilesDir)
	}
	return engine
}

// Setup initializes the routing for the application. In setup mode every other
// route answers SETUP_REQUIRED.
func Setup(engine *gin.Engine, h Handlers, tokens *utils.TokenIssuer, session services.SessionService, opts Options) {
	if len(opts.MissingKeys) > 0 {
		engine.NoRoute(middleware.SetupGuard(opts.MissingKeys))
		return
	}

	apiV1 := engine.Group("/api/v1")
	SetupPublicAuthRoutes(apiV1.Group("/auth"), h.Auth)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(tokens))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), h.Auth)
		SetupSessionRoutes(authenticated, h.Session)

		// Data routes load the clinic data on first use.
		data := authenticated.Group("")
		data.Use(middleware.SessionMiddleware(session))
		SetupDashboardRoutes(data, h.Report)
		SetupClientRoutes(data, h.Client)
		SetupAppointmentRoutes(data, h.Appointment)
		SetupCalendarRoutes(data, h.Appointment)
		SetupFunnelRoutes(data, h.Funnel)
		SetupFinanceRoutes(data, h.Finance)
		SetupSupplierRoutes(data, h.Supplier)
		SetupStaffRoutes(data, h.Staff)
		SetupReportRoutes(data, h.Report)
		SetupChatRoutes(data, h.Chat)

		SetupSettingsRoutes(authenticated, h.Setting)
	}
}
