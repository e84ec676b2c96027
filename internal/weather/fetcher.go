package weather

import (
	"context"
	"time"
)

// RawDaily is the upstream provider's daily series, decoded but not yet
// shaped. The slices are parallel, indexed by day.
type RawDaily struct {
	Latitude       float64
	Longitude      float64
	Time           []string // YYYY-MM-DD
	TemperatureMax []float64
	TemperatureMin []float64
	Precipitation  []float64
	HumidityMean   []float64
	WindSpeedMax   []float64
	WeatherCode    []int
}

// Fetcher abstracts the upstream weather data source (e.g. Open-Meteo).
// Implementations must be safe for concurrent use and hold no
// query-specific state.
type Fetcher interface {
	FetchForecast(ctx context.Context, loc LocationQuery, days int) (*RawDaily, error)
	FetchArchive(ctx context.Context, loc LocationQuery, start, end time.Time) (*RawDaily, error)
}
