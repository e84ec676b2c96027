package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agrofleet/weather-gateway/internal/weather"
)

// Tool names exposed to callers.
const (
	GetWeatherForecast        = "get_weather_forecast"
	GetHistoricalWeather      = "get_historical_weather"
	GetAgriculturalConditions = "get_agricultural_conditions"
)

// Tool descriptions, shared with the MCP adapter.
const (
	ForecastDescription = "Get a daily weather forecast for a location. Supply explicit latitude and longitude; place names are not geocoded."
	HistoryDescription  = "Get observed daily weather for a past date range. Supply explicit latitude and longitude; place names are not geocoded."
	AgroDescription     = "Get daily agricultural conditions (frost risk, planting suitability, soil-moisture proxy) derived from the forecast for a location."
)

// weatherArgs mirrors the flat parameter set every weather tool accepts.
type weatherArgs struct {
	LocationName string   `json:"location_name,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Days         int      `json:"days,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
}

// RegisterWeatherTools wires the three gateway operations into the registry.
func RegisterWeatherTools(r *Registry, svc *weather.Service) {
	r.Register(Definition{
		Name:        GetWeatherForecast,
		Description: ForecastDescription,
		Parameters:  locationSchema(withDays),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		a, err := decodeArgs(args)
		if err != nil {
			return nil, err
		}
		return svc.Forecast(ctx, a.forecastParams())
	})

	r.Register(Definition{
		Name:        GetHistoricalWeather,
		Description: HistoryDescription,
		Parameters:  locationSchema(withDateRange),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		a, err := decodeArgs(args)
		if err != nil {
			return nil, err
		}
		return svc.History(ctx, a.historyParams())
	})

	r.Register(Definition{
		Name:        GetAgriculturalConditions,
		Description: AgroDescription,
		Parameters:  locationSchema(withDays),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		a, err := decodeArgs(args)
		if err != nil {
			return nil, err
		}
		return svc.Agricultural(ctx, a.forecastParams())
	})
}

func (a weatherArgs) forecastParams() weather.ForecastParams {
	return weather.ForecastParams{
		LocationName: a.LocationName,
		Latitude:     a.Latitude,
		Longitude:    a.Longitude,
		Days:         a.Days,
	}
}

func (a weatherArgs) historyParams() weather.HistoryParams {
	return weather.HistoryParams{
		LocationName: a.LocationName,
		Latitude:     a.Latitude,
		Longitude:    a.Longitude,
		StartDate:    a.StartDate,
		EndDate:      a.EndDate,
	}
}

func decodeArgs(raw json.RawMessage) (weatherArgs, error) {
	var a weatherArgs
	if len(raw) == 0 {
		return a, nil
	}
	if err := json.Unmarshal(raw, &a); err != nil {
		return a, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return a, nil
}

type schemaVariant int

const (
	withDays schemaVariant = iota
	withDateRange
)

// locationSchema builds the declared parameter schema for a weather tool.
func locationSchema(variant schemaVariant) JSONSchema {
	props := map[string]*JSONSchema{
		"location_name": {
			Type:        "string",
			Description: "Free-text place name, informational only. Coordinates are still required.",
		},
		"latitude": {
			Type:        "number",
			Description: "Latitude in decimal degrees.",
			Minimum:     floatPtr(-90),
			Maximum:     floatPtr(90),
		},
		"longitude": {
			Type:        "number",
			Description: "Longitude in decimal degrees.",
			Minimum:     floatPtr(-180),
			Maximum:     floatPtr(180),
		},
	}

	var required []string
	switch variant {
	case withDays:
		props["days"] = &JSONSchema{
			Type:        "integer",
			Description: "Number of forecast days.",
			Minimum:     floatPtr(weather.MinForecastDays),
			Maximum:     floatPtr(weather.MaxForecastDays),
			Default:     weather.DefaultForecastDays,
		}
	case withDateRange:
		props["start_date"] = &JSONSchema{
			Type:        "string",
			Description: "Range start, YYYY-MM-DD, in the past.",
		}
		props["end_date"] = &JSONSchema{
			Type:        "string",
			Description: "Range end, YYYY-MM-DD, in the past, not before start_date.",
		}
		required = append(required, "start_date", "end_date")
	}

	return JSONSchema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}
