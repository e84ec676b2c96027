package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/agrofleet/weather-gateway/internal/tools"
	"github.com/agrofleet/weather-gateway/internal/weather"
)

type stubFetcher struct{}

func (stubFetcher) FetchForecast(ctx context.Context, loc weather.LocationQuery, days int) (*weather.RawDaily, error) {
	return stubRaw(days), nil
}

func (stubFetcher) FetchArchive(ctx context.Context, loc weather.LocationQuery, start, end time.Time) (*weather.RawDaily, error) {
	return stubRaw(2), nil
}

func stubRaw(n int) *weather.RawDaily {
	raw := &weather.RawDaily{Latitude: 41.88, Longitude: -87.63}
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		raw.Time = append(raw.Time, day.AddDate(0, 0, i).Format("2006-01-02"))
		raw.TemperatureMax = append(raw.TemperatureMax, 21)
		raw.TemperatureMin = append(raw.TemperatureMin, 13)
		raw.Precipitation = append(raw.Precipitation, 0.2)
		raw.HumidityMean = append(raw.HumidityMean, 58)
		raw.WindSpeedMax = append(raw.WindSpeedMax, 9)
		raw.WeatherCode = append(raw.WeatherCode, 1)
	}
	return raw
}

// connect wires a client to the server over in-memory pipes.
func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()

	ctx := context.Background()
	server := New(weather.NewService(stubFetcher{}, weather.DefaultAgroProfile()), "v0.0.0-test")

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("connecting server: %v", err)
	}
	t.Cleanup(func() { serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.0-test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connecting client: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func TestListToolsExposesGatewayOperations(t *testing.T) {
	session := connect(t)

	res, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("listing tools: %v", err)
	}

	names := make(map[string]bool, len(res.Tools))
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{tools.GetWeatherForecast, tools.GetHistoricalWeather, tools.GetAgriculturalConditions} {
		if !names[want] {
			t.Fatalf("tool %q not listed, got %v", want, names)
		}
	}
}

func TestCallForecastTool(t *testing.T) {
	session := connect(t)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      tools.GetWeatherForecast,
		Arguments: map[string]any{"latitude": 41.8781, "longitude": -87.6298, "days": 3},
	})
	if err != nil {
		t.Fatalf("calling tool: %v", err)
	}
	if res.IsError {
		t.Fatalf("expected success, got error result: %v", res.Content)
	}

	text := textContent(t, res)
	var result weather.ForecastResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(result.Observations) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(result.Observations))
	}
}

func TestCallAgriculturalTool(t *testing.T) {
	session := connect(t)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      tools.GetAgriculturalConditions,
		Arguments: map[string]any{"latitude": 41.8781, "longitude": -87.6298},
	})
	if err != nil {
		t.Fatalf("calling tool: %v", err)
	}
	if res.IsError {
		t.Fatalf("expected success, got error result: %v", res.Content)
	}

	var result weather.AgriculturalAssessment
	if err := json.Unmarshal([]byte(textContent(t, res)), &result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(result.Signals) == 0 {
		t.Fatal("expected derived signals")
	}
}

func TestCallToolWithoutCoordinatesIsError(t *testing.T) {
	session := connect(t)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      tools.GetWeatherForecast,
		Arguments: map[string]any{"location_name": "Chicago"},
	})
	if err != nil {
		t.Fatalf("calling tool: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}
	if text := textContent(t, res); !strings.Contains(text, string(weather.KindAmbiguousLocation)) {
		t.Fatalf("expected %q in error payload, got %q", weather.KindAmbiguousLocation, text)
	}
}

func textContent(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatalf("no text content in result: %v", res.Content)
	return ""
}
