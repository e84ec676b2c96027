package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/agrofleet/weather-gateway/internal/api/http"
	"github.com/agrofleet/weather-gateway/internal/config"
	"github.com/agrofleet/weather-gateway/internal/openmeteo"
	"github.com/agrofleet/weather-gateway/internal/probe"
	"github.com/agrofleet/weather-gateway/internal/tools"
	"github.com/agrofleet/weather-gateway/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Upstream fetcher and the core service.
	client := openmeteo.NewClient(httpClient, cfg.Upstream())
	service := weather.NewService(client, cfg.AgroProfile())

	// Tool registry, assembled once at startup.
	registry := tools.NewRegistry()
	tools.RegisterWeatherTools(registry, service)

	// Periodic upstream reachability probe feeding the health endpoint.
	upProbe := probe.New(client, cfg.ProbeInterval)
	if err := upProbe.Start(); err != nil {
		log.Fatalf("failed to start probe: %v", err)
	}
	defer upProbe.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-gateway",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		st := upProbe.Status()
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"service":  "weather-gateway",
			"upstream": st.Upstream,
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, registry)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
