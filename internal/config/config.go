package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/agrofleet/weather-gateway/internal/openmeteo"
	"github.com/agrofleet/weather-gateway/internal/weather"
)

// AppConfig carries everything the gateway needs; it is built once in main
// and passed into each component's constructor.
type AppConfig struct {
	Port string

	// HTTPTimeout bounds each individual upstream attempt.
	HTTPTimeout time.Duration

	// Upstream endpoints and retry budget.
	ForecastURL        string
	ArchiveURL         string
	FetchMaxRetries    int
	FetchRetryInterval time.Duration

	// ProbeInterval controls how often upstream reachability is checked.
	ProbeInterval time.Duration

	// General-crop thresholds for the agricultural assessment.
	AgroMinPlantingTempC   float64
	AgroMaxPlantingTempC   float64
	AgroMaxDailyPrecipMm   float64
	AgroSoilSaturationMm   float64
	AgroSoilMoistureWindow int
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	cfg.Port = getenvDefault("PORT", "8080")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	upstream := openmeteo.DefaultConfig()
	cfg.ForecastURL = getenvDefault("OPENMETEO_FORECAST_URL", upstream.ForecastURL)
	cfg.ArchiveURL = getenvDefault("OPENMETEO_ARCHIVE_URL", upstream.ArchiveURL)
	cfg.FetchMaxRetries = getenvInt("FETCH_MAX_RETRIES", upstream.MaxRetries)

	retryStr := getenvDefault("FETCH_RETRY_INTERVAL", "500ms")
	retry, err := time.ParseDuration(retryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_RETRY_INTERVAL: %w", err)
	}
	cfg.FetchRetryInterval = retry

	probeStr := getenvDefault("PROBE_INTERVAL", "5m")
	probeInterval, err := time.ParseDuration(probeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PROBE_INTERVAL: %w", err)
	}
	cfg.ProbeInterval = probeInterval

	agro := weather.DefaultAgroProfile()
	cfg.AgroMinPlantingTempC = getenvFloat("AGRO_MIN_PLANTING_TEMP_C", agro.MinPlantingTempC)
	cfg.AgroMaxPlantingTempC = getenvFloat("AGRO_MAX_PLANTING_TEMP_C", agro.MaxPlantingTempC)
	cfg.AgroMaxDailyPrecipMm = getenvFloat("AGRO_MAX_DAILY_PRECIP_MM", agro.MaxDailyPrecipMm)
	cfg.AgroSoilSaturationMm = getenvFloat("AGRO_SOIL_SATURATION_MM", agro.SoilSaturationMm)
	cfg.AgroSoilMoistureWindow = getenvInt("AGRO_SOIL_MOISTURE_WINDOW_DAYS", agro.SoilMoistureWindow)

	return cfg, nil
}

// Upstream builds the fetcher configuration.
func (c *AppConfig) Upstream() openmeteo.Config {
	return openmeteo.Config{
		ForecastURL:   c.ForecastURL,
		ArchiveURL:    c.ArchiveURL,
		MaxRetries:    c.FetchMaxRetries,
		RetryInterval: c.FetchRetryInterval,
	}
}

// AgroProfile builds the agricultural threshold profile.
func (c *AppConfig) AgroProfile() weather.AgroProfile {
	return weather.AgroProfile{
		MinPlantingTempC:   c.AgroMinPlantingTempC,
		MaxPlantingTempC:   c.AgroMaxPlantingTempC,
		MaxDailyPrecipMm:   c.AgroMaxDailyPrecipMm,
		SoilSaturationMm:   c.AgroSoilSaturationMm,
		SoilMoistureWindow: c.AgroSoilMoistureWindow,
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
