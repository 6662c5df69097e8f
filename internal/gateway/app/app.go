package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	httpapi "github.com/tradex-insights/tradex/internal/gateway/http"
	"github.com/tradex-insights/tradex/internal/gateway/ratelimit"
	"github.com/tradex-insights/tradex/internal/gateway/ratelimit/drivers/memory"
	redisdriver "github.com/tradex-insights/tradex/internal/gateway/ratelimit/drivers/redis"
	"github.com/tradex-insights/tradex/internal/gateway/service"
	"github.com/tradex-insights/tradex/internal/gateway/store"
	"github.com/tradex-insights/tradex/internal/gateway/store/drivers/sqlite"
	"github.com/tradex-insights/tradex/pkg/authsdk"
	"github.com/tradex-insights/tradex/pkg/dirsdk"
	"github.com/tradex-insights/tradex/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the gateway with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db          store.Store
	redisClient goredis.UniversalClient
	counters    ratelimit.Store
	counterPing func(context.Context) error

	// Services
	loginService        *service.LoginService
	sessionService      *service.SessionService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "gateway",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	app.initCounters()
	app.initServices()
	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("gateway starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down gateway...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("error closing counter store client", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("gateway stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initCounters selects the shared counter store backing the login limiter.
// Redis is used when configured so all gateway replicas count against the
// same windows; the in-memory store is a single-replica fallback.
func (app *Application) initCounters() {
	if app.cfg.RedisAddr == "" {
		app.counters = memory.New()
		app.logger.Info("login counters in process memory (single replica only)")
		return
	}

	app.redisClient = goredis.NewClient(&goredis.Options{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
	})

	rs := redisdriver.New(app.redisClient)
	app.counters = rs
	app.counterPing = rs.Ping
	app.logger.Info("login counters in redis", "addr", app.cfg.RedisAddr)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	auth := authsdk.NewClient(app.cfg.AuthBackendURL, app.cfg.AuthAPIKey)
	directory := dirsdk.NewClient(app.cfg.DirectoryURL, app.cfg.DirectoryAPIKey)

	app.loginService = &service.LoginService{
		Directory: directory,
		Auth:      auth,
		Store:     app.db,
	}
	app.sessionService = &service.SessionService{
		Auth:  auth,
		Store: app.db,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.AuditKeep,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	router := httpapi.NewRouter(
		BuildVersion,
		app.cfg.SecureCookies(),
		app.db,
		app.logger,
	)

	// Wire services to router
	router.Auth = app.loginService.Auth
	router.LoginService = app.loginService
	router.SessionService = app.sessionService
	router.Limiter = ratelimit.NewLimiter(app.counters, app.cfg.LoginLimit, app.cfg.LoginWindow)
	router.CounterPing = app.counterPing

	if app.cfg.AppUpstreamURL != "" {
		upstream, err := url.Parse(app.cfg.AppUpstreamURL)
		if err != nil {
			return fmt.Errorf("invalid app upstream url: %w", err)
		}
		router.App = httputil.NewSingleHostReverseProxy(upstream)
		app.logger.Info("fronting application upstream", "upstream", upstream.String())
	}

	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
