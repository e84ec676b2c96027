// Package mcpserver exposes the gateway operations as Model Context
// Protocol tools so agent frameworks can discover and call them.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/agrofleet/weather-gateway/internal/tools"
	"github.com/agrofleet/weather-gateway/internal/weather"
)

// forecastArgs is the flat parameter set for forecast-style tools; the
// jsonschema tags feed the SDK's schema inference.
type forecastArgs struct {
	LocationName string   `json:"location_name,omitempty" jsonschema:"free-text place name, informational only; coordinates are still required"`
	Latitude     *float64 `json:"latitude,omitempty" jsonschema:"latitude in decimal degrees, -90 to 90"`
	Longitude    *float64 `json:"longitude,omitempty" jsonschema:"longitude in decimal degrees, -180 to 180"`
	Days         int      `json:"days,omitempty" jsonschema:"number of forecast days, 1 to 16, default 5"`
}

// historyArgs is the flat parameter set for the historical weather tool.
type historyArgs struct {
	LocationName string   `json:"location_name,omitempty" jsonschema:"free-text place name, informational only; coordinates are still required"`
	Latitude     *float64 `json:"latitude,omitempty" jsonschema:"latitude in decimal degrees, -90 to 90"`
	Longitude    *float64 `json:"longitude,omitempty" jsonschema:"longitude in decimal degrees, -180 to 180"`
	StartDate    string   `json:"start_date" jsonschema:"range start, YYYY-MM-DD, in the past"`
	EndDate      string   `json:"end_date" jsonschema:"range end, YYYY-MM-DD, in the past"`
}

// New builds an MCP server exposing the three gateway operations.
func New(service *weather.Service, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "weather-gateway", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{Name: tools.GetWeatherForecast, Description: tools.ForecastDescription},
		func(ctx context.Context, req *mcp.CallToolRequest, args forecastArgs) (*mcp.CallToolResult, *weather.ForecastResult, error) {
			result, err := service.Forecast(ctx, weather.ForecastParams{
				LocationName: args.LocationName,
				Latitude:     args.Latitude,
				Longitude:    args.Longitude,
				Days:         args.Days,
			})
			if err != nil {
				return errorResult(err), nil, nil
			}
			return nil, result, nil
		})

	mcp.AddTool(server, &mcp.Tool{Name: tools.GetHistoricalWeather, Description: tools.HistoryDescription},
		func(ctx context.Context, req *mcp.CallToolRequest, args historyArgs) (*mcp.CallToolResult, *weather.HistoricalResult, error) {
			result, err := service.History(ctx, weather.HistoryParams{
				LocationName: args.LocationName,
				Latitude:     args.Latitude,
				Longitude:    args.Longitude,
				StartDate:    args.StartDate,
				EndDate:      args.EndDate,
			})
			if err != nil {
				return errorResult(err), nil, nil
			}
			return nil, result, nil
		})

	mcp.AddTool(server, &mcp.Tool{Name: tools.GetAgriculturalConditions, Description: tools.AgroDescription},
		func(ctx context.Context, req *mcp.CallToolRequest, args forecastArgs) (*mcp.CallToolResult, *weather.AgriculturalAssessment, error) {
			result, err := service.Agricultural(ctx, weather.ForecastParams{
				LocationName: args.LocationName,
				Latitude:     args.Latitude,
				Longitude:    args.Longitude,
				Days:         args.Days,
			})
			if err != nil {
				return errorResult(err), nil, nil
			}
			return nil, result, nil
		})

	return server
}

// errorResult reports a gateway failure as a structured tool error so the
// calling agent can relay it or retry at its own discretion.
func errorResult(err error) *mcp.CallToolResult {
	kind := weather.KindOf(err)
	message := err.Error()
	// The kind is its own field; strip the prefix Error() adds.
	var gerr *weather.Error
	if errors.As(err, &gerr) {
		message = gerr.Message
	}

	payload, _ := json.Marshal(map[string]any{
		"error": map[string]any{"kind": string(kind), "message": message},
	})
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
	}
}
