package weather

import (
	"time"
)

const (
	// MinForecastDays and MaxForecastDays bound the forecast horizon the
	// upstream provider supports.
	MinForecastDays = 1
	MaxForecastDays = 16

	// DefaultForecastDays is used when the caller omits a day count.
	DefaultForecastDays = 5
)

const dateLayout = "2006-01-02"

// ResolveLocation validates a raw location into a canonical LocationQuery.
// Place names are never geocoded here; a name without coordinates is
// ambiguous and the caller must supply coordinates itself.
func ResolveLocation(name string, lat, lon *float64) (LocationQuery, error) {
	if lat == nil || lon == nil {
		if name != "" {
			return LocationQuery{}, Errorf(KindAmbiguousLocation,
				"location %q cannot be resolved without explicit latitude and longitude", name)
		}
		return LocationQuery{}, Errorf(KindAmbiguousLocation, "latitude and longitude are required")
	}
	if *lat < -90 || *lat > 90 {
		return LocationQuery{}, Errorf(KindInvalidCoordinates, "latitude %g out of range [-90, 90]", *lat)
	}
	if *lon < -180 || *lon > 180 {
		return LocationQuery{}, Errorf(KindInvalidCoordinates, "longitude %g out of range [-180, 180]", *lon)
	}
	return LocationQuery{Name: name, Latitude: *lat, Longitude: *lon}, nil
}

// ResolveForecastRange validates a forecast day count.
func ResolveForecastRange(days int) (TimeRange, error) {
	if days < MinForecastDays || days > MaxForecastDays {
		return TimeRange{}, Errorf(KindInvalidTimeRange,
			"days must be between %d and %d, got %d", MinForecastDays, MaxForecastDays, days)
	}
	return TimeRange{DaysAhead: days}, nil
}

// ResolveHistoryRange parses and validates a historical date range. Both
// dates must precede the current day, and the range must be ordered.
func ResolveHistoryRange(startStr, endStr string, now time.Time) (TimeRange, error) {
	if startStr == "" || endStr == "" {
		return TimeRange{}, Errorf(KindInvalidTimeRange, "start_date and end_date are required")
	}
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return TimeRange{}, Errorf(KindInvalidTimeRange, "invalid start_date %q; use YYYY-MM-DD", startStr)
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return TimeRange{}, Errorf(KindInvalidTimeRange, "invalid end_date %q; use YYYY-MM-DD", endStr)
	}
	if end.Before(start) {
		return TimeRange{}, Errorf(KindInvalidTimeRange, "start_date %s is after end_date %s", startStr, endStr)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !end.Before(today) {
		return TimeRange{}, Errorf(KindInvalidTimeRange, "historical range must lie entirely in the past")
	}
	return TimeRange{Start: start.UTC(), End: end.UTC()}, nil
}
