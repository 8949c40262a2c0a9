package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/events"
	httpapi "github.com/aussiebroadwan/timeclock/internal/timeclock/http"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/report"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/service"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/store"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/store/drivers/postgres"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/store/drivers/sqlite"
	"github.com/aussiebroadwan/timeclock/pkg/cryptox"
	"github.com/aussiebroadwan/timeclock/pkg/httpx"
	"github.com/aussiebroadwan/timeclock/pkg/jwtx"
	"github.com/aussiebroadwan/timeclock/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application wires the time clock service together.
type Application struct {
	cfg      Config
	logger   *slog.Logger
	location *time.Location

	db         store.Store
	keyManager *jwtx.KeyManager
	registry   *prometheus.Registry
	hub        *events.Hub
	limiter    *httpx.RedisLimiter // nil when rate limits are in-process
	archive    *report.S3Archive   // nil when archiving is off

	accountService      *service.AccountService
	passwordService     *service.PasswordService
	clockService        *service.ClockService
	summaryService      *service.SummaryService
	reportService       *service.ReportService
	badgeService        *service.BadgeService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with every dependency initialised.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "timeclock",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	app.location = loc

	cryptox.SetPepperPath(cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:  cfg.Issuer,
		NumKeys: cfg.NumKeys,
	})
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize JWT keys: %w", err)
	}
	app.keyManager = keyManager

	if err := app.initInfrastructure(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("timeclock starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"timezone", app.location.String(),
		"database", app.cfg.DatabaseDriver,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains the HTTP server and releases every dependency.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down timeclock...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Kiosk websockets are hijacked and outlive server.Shutdown.
	app.hub.Stop()
	app.housekeepingService.Stop()

	if app.limiter != nil {
		if err := app.limiter.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("timeclock stopped")
	return nil
}

// initDatabase opens the configured driver and applies migrations.
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case "sqlite":
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		db, err = sqlite.NewStore(dsn)
	case "postgres":
		if app.cfg.DatabaseURL == "" {
			return fmt.Errorf("TIMECLOCK_DATABASE_URL is required for the postgres driver")
		}
		db, err = postgres.NewStore(app.cfg.DatabaseURL)
	default:
		return fmt.Errorf("unknown database driver %q", app.cfg.DatabaseDriver)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := db.ApplyMigrations(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initInfrastructure sets up metrics, the kiosk hub and the optional Redis
// and S3 backends.
func (app *Application) initInfrastructure() error {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app.hub = events.NewHub(app.logger)

	if app.cfg.RedisAddr != "" {
		limiter, err := httpx.NewRedisLimiter(app.cfg.RedisAddr, app.cfg.RedisPassword, app.cfg.RedisDB, app.logger)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.limiter = limiter
		app.logger.Info("redis rate limiting enabled", "addr", app.cfg.RedisAddr)
	}

	if app.cfg.S3Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		archive, err := report.NewS3Archive(ctx, report.S3Config{
			Bucket:    app.cfg.S3Bucket,
			Region:    app.cfg.S3Region,
			Endpoint:  app.cfg.S3Endpoint,
			AccessKey: app.cfg.S3AccessKey,
			SecretKey: app.cfg.S3SecretKey,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize report archive: %w", err)
		}
		app.archive = archive
		app.logger.Info("report archive enabled", "bucket", app.cfg.S3Bucket)
	}

	return nil
}

func (app *Application) initServices() {
	app.accountService = &service.AccountService{
		Store:              app.db,
		KeyManager:         app.keyManager,
		Issuer:             app.cfg.Issuer,
		AccessTTL:          jwtx.DefaultAccessTokenTTL,
		RefreshTTL:         jwtx.DefaultRefreshTokenTTL,
		DefaultWeeklyHours: app.cfg.DefaultWeeklyHours,
	}
	app.passwordService = &service.PasswordService{
		Store:     app.db,
		Mailer:    service.LogMailer{Logger: app.logger},
		PublicURL: app.cfg.PublicURL,
		ResetTTL:  app.cfg.ResetTTL,
	}
	app.clockService = &service.ClockService{
		Store:    app.db,
		Location: app.location,
		Events:   app.hub,
		Metrics:  service.NewClockMetrics(app.registry),
	}
	app.summaryService = &service.SummaryService{Store: app.db, Location: app.location}
	app.reportService = &service.ReportService{Store: app.db, Location: app.location}
	if app.archive != nil {
		app.reportService.Archive = app.archive
	}
	app.badgeService = &service.BadgeService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		app.keyManager.Verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.Metrics = httpx.NewMetrics("timeclock", app.registry)
	router.Gatherer = app.registry
	router.KioskToken = app.cfg.KioskToken
	router.Hub = app.hub
	if app.limiter != nil {
		router.Limiter = app.limiter
	}

	router.AccountService = app.accountService
	router.PasswordService = app.passwordService
	router.ClockService = app.clockService
	router.SummaryService = app.summaryService
	router.ReportService = app.reportService
	router.BadgeService = app.badgeService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
