package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"clinic_crm_backend/internal/appstate"
	"clinic_crm_backend/internal/config"
	"clinic_crm_backend/internal/database"
	"clinic_crm_backend/internal/fixtures"
	"clinic_crm_backend/internal/handlers"
	"clinic_crm_backend/internal/insights"
	"clinic_crm_backend/internal/messaging"
	"clinic_crm_backend/internal/middleware"
	"clinic_crm_backend/internal/repositories"
	"clinic_crm_backend/internal/router"
	"clinic_crm_backend/internal/services"
	"clinic_crm_backend/internal/storage"
	"clinic_crm_backend/internal/supabase"
	"clinic_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const shutdownTimeout = 10 * time.Second

// backend is everything that depends on the configured driver.
type backend struct {
	gateways      repositories.Gateways
	authenticator services.Authenticator
	profiles      services.ProfileFinder
	store         storage.ObjectStore
	settings      repositories.SettingRepository
	filesDir      string
	close         func() error
}

func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	switch cfg.Backend.Driver {
	case config.DriverSupabase:
		client := supabase.NewClient(cfg.Backend.URL, cfg.Backend.Key, cfg.Backend.Timeout)
		auth := supabase.NewAuth(client)
		return &backend{
			gateways:      supabase.NewGateways(client),
			authenticator: auth,
			profiles:      auth,
			store:         supabase.NewStorage(client, cfg.Backend.StorageBucket),
			settings:      supabase.NewSettings(client),
			close:         func() error { return nil },
		}, nil
	default:
		db, err := database.Open(ctx, cfg.Backend.URL)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		store, err := storage.NewDiskStore(cfg.Storage.Dir, cfg.Storage.PublicURL)
		if err != nil {
			db.Close()
			return nil, err
		}
		authRepo := repositories.NewAuthRepository(db)
		return &backend{
			gateways:      repositories.NewPostgresGateways(db),
			authenticator: services.NewPasswordAuthenticator(authRepo),
			profiles:      authRepo,
			store:         store,
			settings:      repositories.NewSettingRepository(db),
			filesDir:      store.Root(),
			close:         db.Close,
		}, nil
	}
}

func serve(ctx context.Context, envPath string) error {
	cfg, err := config.New(envPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	utils.InitLogger(cfg.LogLevel)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	missing := cfg.MissingBackendKeys()
	secret := cfg.JWT.Secret
	if secret == "" && len(missing) > 0 {
		// Nothing can log in during setup mode, so a throwaway key is enough.
		secret = uuid.NewString()
	}
	tokens, err := utils.NewTokenIssuer(secret, cfg.JWT.AccessTokenTTL)
	if err != nil {
		return fmt.Errorf("JWT_SECRET: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	opts := router.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:            middleware.NewMetrics(),
		Setup:              handlers.NewSetupHandler(missing, cfg.Backend.Driver, cfg.GenAI.APIKey != "", cfg.FixturesEnabled),
		MissingKeys:        missing,
	}

	var (
		h       router.Handlers
		session services.SessionService
	)
	if len(missing) > 0 {
		utils.LogInfo("Backend not configured, serving setup mode", map[string]interface{}{"missing_keys": missing})
	} else {
		b, err := openBackend(ctx, cfg)
		if err != nil {
			return fmt.Errorf("open %s backend: %w", cfg.Backend.Driver, err)
		}
		defer b.close()
		opts.FilesDir = b.filesDir

		state := appstate.New(b.gateways)
		provider := fixtures.NewProvider(cfg.FixturesEnabled)
		gemini := insights.NewGeminiClient(cfg.GenAI.BaseURL, cfg.GenAI.APIKey, cfg.GenAI.Model, cfg.GenAI.Timeout)
		composer := messaging.NewComposer(cfg.Clinic.PhoneCountryCode, cfg.Clinic.Name)
		session = services.NewSessionService(state)
		reports := services.NewReportService(state, provider, insights.NewService(gemini), cfg.Business, loc, nil)

		h = router.Handlers{
			Auth:        handlers.NewAuthHandler(services.NewAuthService(b.authenticator, b.profiles, tokens)),
			Session:     handlers.NewSessionHandler(session),
			Client:      handlers.NewClientHandler(services.NewClientService(state, b.store, cfg.Clinic.Professional, loc, nil)),
			Appointment: handlers.NewAppointmentHandler(services.NewAppointmentService(state, composer, loc, nil)),
			Funnel:      handlers.NewFunnelHandler(services.NewDealService(state)),
			Finance:     handlers.NewFinanceHandler(services.NewFinanceService(state, cfg.Business)),
			Supplier:    handlers.NewSupplierHandler(services.NewSupplierService(state)),
			Staff:       handlers.NewStaffHandler(services.NewStaffService(state)),
			Setting:     handlers.NewSettingHandler(services.NewAppearanceService(b.settings)),
			Report:      handlers.NewReportHandler(reports),
			Chat:        handlers.NewChatHandler(reports, provider),
		}
	}

	engine := router.NewEngine(opts)
	router.Setup(engine, h, tokens, session, opts)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.HTTPPort, "driver": cfg.Backend.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	utils.LogInfo("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
