package weather

import (
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// ConditionFromCode maps a WMO weather interpretation code (as reported by
// the upstream provider) to a normalized Condition.
func ConditionFromCode(code int) Condition {
	switch {
	case code == 0:
		return ConditionClear
	case code >= 1 && code <= 3:
		return ConditionCloudy
	case code == 45 || code == 48:
		return ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return ConditionSnow
	case code >= 95:
		return ConditionStorm
	default:
		return ConditionUnknown
	}
}

// LocationQuery is the canonical location for a single request. Name is
// informational only; it is never geocoded here. Coordinates are always
// populated on a resolved query.
type LocationQuery struct {
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TimeRange is the canonical time window for a single request. Forecast
// queries carry DaysAhead; historical queries carry Start and End.
type TimeRange struct {
	Start     time.Time `json:"start_date,omitempty"`
	End       time.Time `json:"end_date,omitempty"`
	DaysAhead int       `json:"days_ahead,omitempty"`
}

// WeatherObservation is one shaped daily record. Immutable once constructed.
// TemperatureC is the daily mean derived from the min/max pair.
type WeatherObservation struct {
	Timestamp       time.Time `json:"timestamp"` // always UTC, midnight of the day
	TemperatureC    float64   `json:"temperature_c"`
	TemperatureMinC float64   `json:"temperature_min_c"`
	TemperatureMaxC float64   `json:"temperature_max_c"`
	PrecipitationMm float64   `json:"precipitation_mm"`
	HumidityPct     float64   `json:"humidity_pct"`
	WindSpeedKmh    float64   `json:"wind_speed_kmh"`
	ConditionsCode  int       `json:"conditions_code"`
	Condition       Condition `json:"condition"`
}

// ForecastResult is an ordered multi-day forecast for one location.
type ForecastResult struct {
	Location     LocationQuery        `json:"location"`
	Observations []WeatherObservation `json:"observations"`
}

// HistoricalResult is an ordered series of observed past days for one location.
type HistoricalResult struct {
	Location     LocationQuery        `json:"location"`
	Observations []WeatherObservation `json:"observations"`
}

// AgroSignal carries the derived agricultural fields for one day.
type AgroSignal struct {
	Timestamp         time.Time `json:"timestamp"`
	FrostRisk         bool      `json:"frost_risk"`
	PlantingSuitable  bool      `json:"planting_suitable"`
	SoilMoistureIndex float64   `json:"soil_moisture_index"` // 0 (dry) to 1 (saturated)
}

// AgriculturalAssessment pairs the shaped observations with the per-day
// agricultural signals derived from them.
type AgriculturalAssessment struct {
	Location     LocationQuery        `json:"location"`
	Observations []WeatherObservation `json:"observations"`
	Signals      []AgroSignal         `json:"signals"`
}
