package weather

import (
	"time"
)

// AgroProfile holds the threshold bands for the default "general crop"
// planting heuristic. The values are a placeholder business rule, not a
// verified agronomic model; they come from configuration rather than a
// per-crop database.
type AgroProfile struct {
	MinPlantingTempC float64
	MaxPlantingTempC float64
	MaxDailyPrecipMm float64

	// SoilSaturationMm is the trailing precipitation total that counts as
	// fully saturated soil; SoilMoistureWindow is how many trailing days
	// feed the proxy.
	SoilSaturationMm   float64
	SoilMoistureWindow int
}

// DefaultAgroProfile returns the general-crop bands used when no
// configuration overrides them.
func DefaultAgroProfile() AgroProfile {
	return AgroProfile{
		MinPlantingTempC:   10,
		MaxPlantingTempC:   30,
		MaxDailyPrecipMm:   10,
		SoilSaturationMm:   30,
		SoilMoistureWindow: 3,
	}
}

// ShapeForecast maps the upstream daily series into a ForecastResult.
// Pure function; fails only on a contract violation by the upstream.
func ShapeForecast(loc LocationQuery, raw *RawDaily) (*ForecastResult, error) {
	obs, err := shapeObservations(raw)
	if err != nil {
		return nil, err
	}
	return &ForecastResult{Location: loc, Observations: obs}, nil
}

// ShapeHistory maps the upstream daily series into a HistoricalResult.
func ShapeHistory(loc LocationQuery, raw *RawDaily) (*HistoricalResult, error) {
	obs, err := shapeObservations(raw)
	if err != nil {
		return nil, err
	}
	return &HistoricalResult{Location: loc, Observations: obs}, nil
}

// ShapeAgricultural maps the upstream daily series into an
// AgriculturalAssessment using the given threshold profile.
func ShapeAgricultural(loc LocationQuery, raw *RawDaily, profile AgroProfile) (*AgriculturalAssessment, error) {
	obs, err := shapeObservations(raw)
	if err != nil {
		return nil, err
	}
	return &AgriculturalAssessment{
		Location:     loc,
		Observations: obs,
		Signals:      deriveAgroSignals(obs, profile),
	}, nil
}

// shapeObservations converts the raw parallel series into chronologically
// ordered observations. Missing or ragged series are a contract violation.
func shapeObservations(raw *RawDaily) ([]WeatherObservation, error) {
	if raw == nil || len(raw.Time) == 0 {
		return nil, Errorf(KindMalformedUpstreamPayload, "upstream payload has no daily series")
	}
	n := len(raw.Time)
	if len(raw.TemperatureMax) != n || len(raw.TemperatureMin) != n ||
		len(raw.Precipitation) != n || len(raw.WindSpeedMax) != n || len(raw.WeatherCode) != n {
		return nil, Errorf(KindMalformedUpstreamPayload, "upstream daily series have mismatched lengths")
	}

	obs := make([]WeatherObservation, 0, n)
	for i := 0; i < n; i++ {
		ts, err := time.Parse(dateLayout, raw.Time[i])
		if err != nil {
			return nil, Errorf(KindMalformedUpstreamPayload, "invalid daily timestamp %q", raw.Time[i])
		}

		// Humidity is optional upstream; zero when the series is absent.
		var humidity float64
		if len(raw.HumidityMean) == n {
			humidity = raw.HumidityMean[i]
		}

		code := raw.WeatherCode[i]
		obs = append(obs, WeatherObservation{
			Timestamp:       ts.UTC(),
			TemperatureC:    (raw.TemperatureMax[i] + raw.TemperatureMin[i]) / 2,
			TemperatureMinC: raw.TemperatureMin[i],
			TemperatureMaxC: raw.TemperatureMax[i],
			PrecipitationMm: raw.Precipitation[i],
			HumidityPct:     humidity,
			WindSpeedKmh:    raw.WindSpeedMax[i],
			ConditionsCode:  code,
			Condition:       ConditionFromCode(code),
		})
	}
	return obs, nil
}

// deriveAgroSignals computes per-day frost risk, planting suitability and a
// soil-moisture proxy from shaped observations. The proxy is the trailing
// precipitation total scaled against the profile's saturation level.
func deriveAgroSignals(obs []WeatherObservation, p AgroProfile) []AgroSignal {
	window := p.SoilMoistureWindow
	if window <= 0 {
		window = 1
	}

	signals := make([]AgroSignal, 0, len(obs))
	for i, o := range obs {
		frost := o.TemperatureMinC < 0
		suitable := !frost &&
			o.TemperatureC >= p.MinPlantingTempC && o.TemperatureC <= p.MaxPlantingTempC &&
			o.PrecipitationMm <= p.MaxDailyPrecipMm

		var trailing float64
		for j := i; j >= 0 && i-j < window; j-- {
			trailing += obs[j].PrecipitationMm
		}
		var moisture float64
		if p.SoilSaturationMm > 0 {
			moisture = trailing / p.SoilSaturationMm
			if moisture > 1 {
				moisture = 1
			}
		}

		signals = append(signals, AgroSignal{
			Timestamp:         o.Timestamp,
			FrostRisk:         frost,
			PlantingSuitable:  suitable,
			SoilMoistureIndex: moisture,
		})
	}
	return signals
}
