package openmeteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agrofleet/weather-gateway/internal/weather"
)

const dailyPayloadJSON = `{
	"latitude": 41.875,
	"longitude": -87.625,
	"daily": {
		"time": ["2024-06-01", "2024-06-02"],
		"temperature_2m_max": [24.1, 22.0],
		"temperature_2m_min": [13.5, 12.2],
		"precipitation_sum": [0.0, 3.4],
		"relative_humidity_2m_mean": [55, 62],
		"windspeed_10m_max": [18.7, 15.2],
		"weathercode": [1, 61]
	}
}`

func testClient(url string) *Client {
	return NewClient(&http.Client{Timeout: 5 * time.Second}, Config{
		ForecastURL:   url,
		ArchiveURL:    url,
		MaxRetries:    2,
		RetryInterval: time.Millisecond,
	})
}

func testLocation() weather.LocationQuery {
	return weather.LocationQuery{Latitude: 41.8781, Longitude: -87.6298}
}

func TestFetchForecastRetriesOnServerError(t *testing.T) {
	var attempts int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(dailyPayloadJSON))
	}))
	defer ts.Close()

	raw, err := testClient(ts.URL).FetchForecast(context.Background(), testLocation(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if len(raw.Time) != 2 || raw.TemperatureMax[0] != 24.1 {
		t.Fatalf("unexpected payload: %+v", raw)
	}
}

func TestFetchForecastRejectedOn4xxWithoutRetry(t *testing.T) {
	var attempts int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": true, "reason": "Invalid value for forecast_days"}`))
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).FetchForecast(context.Background(), testLocation(), 2)
	if kind := weather.KindOf(err); kind != weather.KindUpstreamRejected {
		t.Fatalf("expected kind %q, got %q (err=%v)", weather.KindUpstreamRejected, kind, err)
	}
	if attempts != 1 {
		t.Fatalf("expected exactly 1 attempt on 4xx, got %d", attempts)
	}
	if !strings.Contains(err.Error(), "Invalid value for forecast_days") {
		t.Fatalf("expected upstream reason in error, got %v", err)
	}
}

func TestFetchForecastUnavailableAfterRetryBudget(t *testing.T) {
	var attempts int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).FetchForecast(context.Background(), testLocation(), 2)
	if kind := weather.KindOf(err); kind != weather.KindUpstreamUnavailable {
		t.Fatalf("expected kind %q, got %q (err=%v)", weather.KindUpstreamUnavailable, kind, err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts (1 + 2 retries), got %d", attempts)
	}
}

func TestFetchForecastMalformedPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).FetchForecast(context.Background(), testLocation(), 2)
	if kind := weather.KindOf(err); kind != weather.KindMalformedUpstreamPayload {
		t.Fatalf("expected kind %q, got %q (err=%v)", weather.KindMalformedUpstreamPayload, kind, err)
	}
}

func TestFetchForecastQueryParameters(t *testing.T) {
	var query string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(dailyPayloadJSON))
	}))
	defer ts.Close()

	if _, err := testClient(ts.URL).FetchForecast(context.Background(), testLocation(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"latitude=41.8781", "longitude=-87.6298", "forecast_days=5", "timezone=UTC"} {
		if !strings.Contains(query, want) {
			t.Fatalf("expected query to contain %q, got %q", want, query)
		}
	}
}

func TestFetchArchiveQueryParameters(t *testing.T) {
	var query string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(dailyPayloadJSON))
	}))
	defer ts.Close()

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	if _, err := testClient(ts.URL).FetchArchive(context.Background(), testLocation(), start, end); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"start_date=2024-05-01", "end_date=2024-05-10"} {
		if !strings.Contains(query, want) {
			t.Fatalf("expected query to contain %q, got %q", want, query)
		}
	}
}

func TestFetchForecastAbandonedOnCancel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient(&http.Client{Timeout: 5 * time.Second}, Config{
		ForecastURL:   ts.URL,
		ArchiveURL:    ts.URL,
		MaxRetries:    2,
		RetryInterval: time.Minute, // force the retry wait to hit the context
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchForecast(ctx, testLocation(), 2)
	if kind := weather.KindOf(err); kind != weather.KindUpstreamUnavailable {
		t.Fatalf("expected kind %q, got %q (err=%v)", weather.KindUpstreamUnavailable, kind, err)
	}
}
