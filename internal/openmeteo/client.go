package openmeteo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/agrofleet/weather-gateway/internal/weather"
)

// Config holds the upstream endpoints and resilience settings.
type Config struct {
	ForecastURL   string
	ArchiveURL    string
	MaxRetries    int           // additional attempts after the first
	RetryInterval time.Duration // fixed delay between attempts
}

// DefaultConfig returns the public Open-Meteo endpoints with the default
// retry budget. No API key is required.
func DefaultConfig() Config {
	return Config{
		ForecastURL:   "https://api.open-meteo.com/v1/forecast",
		ArchiveURL:    "https://archive-api.open-meteo.com/v1/archive",
		MaxRetries:    2,
		RetryInterval: 500 * time.Millisecond,
	}
}

// dailyParams is the daily variable list requested from Open-Meteo.
const dailyParams = "temperature_2m_max,temperature_2m_min,precipitation_sum,relative_humidity_2m_mean,windspeed_10m_max,weathercode"

const dateLayout = "2006-01-02"

// Client fetches daily weather series from Open-Meteo. It keeps no
// query-specific state; one instance is shared by all requests.
type Client struct {
	cfg        Config
	httpClient *http.Client
	forecastCB *gobreaker.CircuitBreaker
	archiveCB  *gobreaker.CircuitBreaker
}

var _ weather.Fetcher = (*Client)(nil)

// NewClient creates a Client using the shared HTTP client. The HTTP
// client's timeout bounds each individual attempt.
func NewClient(httpClient *http.Client, cfg Config) *Client {
	newCB := func(name string) *gobreaker.CircuitBreaker {
		return gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		})
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		forecastCB: newCB("openmeteo-forecast"),
		archiveCB:  newCB("openmeteo-archive"),
	}
}

// FetchForecast requests a daily forecast series for the next days.
func (c *Client) FetchForecast(ctx context.Context, loc weather.LocationQuery, days int) (*weather.RawDaily, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", formatCoord(loc.Latitude))
		values.Set("longitude", formatCoord(loc.Longitude))
		values.Set("daily", dailyParams)
		values.Set("forecast_days", strconv.Itoa(days))
		values.Set("timezone", "UTC")
		return http.NewRequest(http.MethodGet, c.cfg.ForecastURL+"?"+values.Encode(), nil)
	}
	return c.fetchDaily(ctx, c.forecastCB, buildRequest)
}

// FetchArchive requests the observed daily series for a past date range.
func (c *Client) FetchArchive(ctx context.Context, loc weather.LocationQuery, start, end time.Time) (*weather.RawDaily, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", formatCoord(loc.Latitude))
		values.Set("longitude", formatCoord(loc.Longitude))
		values.Set("daily", dailyParams)
		values.Set("start_date", start.Format(dateLayout))
		values.Set("end_date", end.Format(dateLayout))
		values.Set("timezone", "UTC")
		return http.NewRequest(http.MethodGet, c.cfg.ArchiveURL+"?"+values.Encode(), nil)
	}
	return c.fetchDaily(ctx, c.archiveCB, buildRequest)
}

// Ping issues a minimal forecast request; the reachability probe uses it.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.FetchForecast(ctx, weather.LocationQuery{}, 1)
	return err
}

func (c *Client) fetchDaily(ctx context.Context, cb *gobreaker.CircuitBreaker, buildRequest func() (*http.Request, error)) (*weather.RawDaily, error) {
	backoff := BackoffConfig{MaxRetries: c.cfg.MaxRetries, Interval: c.cfg.RetryInterval}
	resp, err := doRequestWithResilience(ctx, c.httpClient, backoff, cb, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Daily     struct {
			Time                   []string  `json:"time"`
			Temperature2mMax       []float64 `json:"temperature_2m_max"`
			Temperature2mMin       []float64 `json:"temperature_2m_min"`
			PrecipitationSum       []float64 `json:"precipitation_sum"`
			RelativeHumidity2mMean []float64 `json:"relative_humidity_2m_mean"`
			WindSpeed10mMax        []float64 `json:"windspeed_10m_max"`
			WeatherCode            []int     `json:"weathercode"`
		} `json:"daily"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, weather.Errorf(weather.KindMalformedUpstreamPayload, "decode upstream payload: %v", err)
	}

	return &weather.RawDaily{
		Latitude:       payload.Latitude,
		Longitude:      payload.Longitude,
		Time:           payload.Daily.Time,
		TemperatureMax: payload.Daily.Temperature2mMax,
		TemperatureMin: payload.Daily.Temperature2mMin,
		Precipitation:  payload.Daily.PrecipitationSum,
		HumidityMean:   payload.Daily.RelativeHumidity2mMean,
		WindSpeedMax:   payload.Daily.WindSpeed10mMax,
		WeatherCode:    payload.Daily.WeatherCode,
	}, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
