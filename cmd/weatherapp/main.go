package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	httpapi "github.com/Jalson1982/WeatherApp/internal/api/http"
	"github.com/Jalson1982/WeatherApp/internal/config"
	"github.com/Jalson1982/WeatherApp/internal/geocode"
	"github.com/Jalson1982/WeatherApp/internal/geoloc"
	"github.com/Jalson1982/WeatherApp/internal/httpx"
	"github.com/Jalson1982/WeatherApp/internal/store"
	"github.com/Jalson1982/WeatherApp/internal/weather"
)

// fixedPositionFromEnv reads DEVICE_LAT/DEVICE_LON, the headless stand-in
// for a real platform position provider.
func fixedPositionFromEnv() (geoloc.Position, bool) {
	latStr, lonStr := os.Getenv("DEVICE_LAT"), os.Getenv("DEVICE_LON")
	if latStr == "" || lonStr == "" {
		return geoloc.Position{}, false
	}
	lat, latErr := strconv.ParseFloat(latStr, 64)
	lon, lonErr := strconv.ParseFloat(lonStr, 64)
	if latErr != nil || lonErr != nil {
		log.Printf("INFO: ignoring invalid DEVICE_LAT/DEVICE_LON: %q %q", latStr, lonStr)
		return geoloc.Position{}, false
	}
	return geoloc.Position{Latitude: lat, Longitude: lon, Timestamp: time.Now()}, true
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls, behind a circuit
	// breaker. Retries stay outside the clients; they are layered here
	// only when explicitly enabled.
	var doer weather.Doer = httpx.NewBreakerDoer(&http.Client{
		Timeout: cfg.HTTPTimeout,
	}, "openweather")
	if cfg.RetryEnabled {
		doer = httpx.NewRetryDoer(doer, cfg.RetryAttempts, cfg.RetryDelay)
	}

	weatherClient := weather.NewClient(doer, cfg.APIKey,
		weather.WithBaseURL(cfg.WeatherBaseURL),
		weather.WithUnits(cfg.Units),
		weather.WithForecastDays(cfg.ForecastDays),
	)
	geoClient := geocode.NewClient(doer, cfg.APIKey, cfg.GeoBaseURL)

	// Application state: one container, two mutation paths.
	appStore := store.New(weatherClient, cfg.RecentSearchesLimit)

	// Device geolocation stand-in: a fixed position from the environment,
	// behind the same timeout/max-age policy a platform provider gets.
	var locator *geoloc.Locator
	if pos, ok := fixedPositionFromEnv(); ok {
		locator = geoloc.NewLocator(geoloc.FixedProvider{Position: pos}, geoloc.Options{
			EnableHighAccuracy: true,
			Timeout:            cfg.GeolocationTimeout,
			MaximumAge:         cfg.GeolocationMaxAge,
		})
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weatherapp",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
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

	// Global middleware
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weatherapp",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Store:           appStore,
		Geocoder:        geoClient,
		Locator:         locator,
		LocationLimit:   cfg.LocationLimit,
		MinSearchLength: cfg.MinSearchLength,
		IconBaseURL:     cfg.IconBaseURL,
	})

	// Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
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
