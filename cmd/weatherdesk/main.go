package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/i474232898/weatherdesk/internal/api/http"
	"github.com/i474232898/weatherdesk/internal/app"
	"github.com/i474232898/weatherdesk/internal/applog"
	"github.com/i474232898/weatherdesk/internal/config"
	"github.com/i474232898/weatherdesk/internal/scheduler"
	"github.com/i474232898/weatherdesk/internal/store"
	"github.com/i474232898/weatherdesk/internal/weather"
	"github.com/i474232898/weatherdesk/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	level, err := applog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLog, err := applog.Open(cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to open application log: %v", err)
	}
	defer appLog.Close()

	logger := appLog.Logger(level, os.Stderr)
	slog.SetDefault(logger)

	// Outbound clients. Icons and geolocation get shorter bounds than weather calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	iconClient := &http.Client{Timeout: cfg.IconTimeout}
	geoClient := &http.Client{Timeout: cfg.GeoTimeout}

	provider := providers.NewOpenWeatherProvider(httpClient, iconClient, cfg.OpenWeatherBaseURL, cfg.OpenWeatherIconURL)
	locator := providers.NewIPLocator(geoClient, cfg.GeolocationURL)

	service := weather.NewService(provider, cfg.HTTPTimeout, logger)
	icons := weather.NewIconCache(provider, cfg.IconTimeout)

	ctrl := app.New(app.Deps{
		Service:     service,
		Icons:       icons,
		Locator:     locator,
		Preferences: store.NewPreferenceFile(cfg.PrefsFile, logger),
		Reports:     store.NewReportStore(),
		Logs:        appLog,
		Logger:      logger,
		Location:    loc,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := ctrl.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("controller stopped", "error", err)
		}
	}()

	// Auto-refresh scheduler driven by the stored preferences.
	sched := scheduler.New(ctrl, logger)
	ctrl.SetAutoRefresher(sched)
	sched.Start()
	defer sched.Stop()

	ctrl.Startup()
	logger.Info("application started", "prefs_file", cfg.PrefsFile, "log_file", cfg.LogFile, "timezone", loc.String())

	fiberApp := fiber.New(fiber.Config{
		AppName:               "weatherdesk",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	fiberApp.Use(fiberlogger.New())
	fiberApp.Use(recover.New())

	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weatherdesk",
		})
	})
	fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(fiberApp, ctrl)

	go func() {
		if err := fiberApp.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}
