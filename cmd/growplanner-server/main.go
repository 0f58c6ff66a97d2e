package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/grow-planner/internal/api/http"
	"github.com/i474232898/grow-planner/internal/auth"
	"github.com/i474232898/grow-planner/internal/config"
	"github.com/i474232898/grow-planner/internal/logging"
	"github.com/i474232898/grow-planner/internal/scheduler"
	"github.com/i474232898/grow-planner/internal/store"
	"github.com/i474232898/grow-planner/internal/weather"
	"github.com/i474232898/grow-planner/internal/weather/providers"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	memStore := store.NewMemoryStore(cfg.StoreMaxLocations, cfg.CacheMaxAge)

	profiles, err := store.NewProfileStore(ctx, cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to open profile store", zap.String("path", cfg.DatabasePath), zap.Error(err))
	}
	defer profiles.Close()

	// Providers with resilience (backoff + circuit breaker). Only keyed ones are enabled.
	var provs []weather.Provider
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey,
			providers.WithLanguage(cfg.WeatherLang)))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey,
			providers.WithLanguage(cfg.WeatherLang)))
	}
	if len(provs) == 0 {
		logger.Warn("no weather provider key configured; weather lookups will fail")
	}

	service := weather.NewService(memStore, provs, cfg.CacheMaxAge, logger,
		weather.WithRefreshIdle(cfg.RefreshIdleAfter))

	if cfg.RefreshInterval > 0 && cfg.CacheMaxAge > 0 && cfg.RefreshInterval >= cfg.CacheMaxAge {
		logger.Warn("refresh interval is not shorter than cache max age; lookups will miss the cache between refreshes",
			zap.Duration("refresh_interval", cfg.RefreshInterval),
			zap.Duration("cache_max_age", cfg.CacheMaxAge))
	}

	sched := scheduler.New(service, cfg.RefreshInterval, logger)
	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	var tokens httpapi.TokenParser
	if cfg.JWTSecret != "" {
		tokens = auth.NewTokens(cfg.JWTSecret)
	} else {
		logger.Warn("GROWPLANNER_JWT_SECRET not set; all requests are anonymous")
	}

	app := fiber.New(fiber.Config{
		AppName:               "growplanner",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"service":   "growplanner",
			"providers": len(provs),
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Weather:  service,
		Profiles: profiles,
		Tokens:   tokens,
		Logger:   logger,
	})

	go func() {
		logger.Info("listening", zap.String("port", cfg.Port), zap.Int("providers", len(provs)))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
}
