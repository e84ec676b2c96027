package weather

import (
	"context"
	"time"
)

// ForecastParams is the flat argument set for forecast and agricultural
// queries. Latitude/Longitude are pointers so "absent" and "zero" stay
// distinguishable.
type ForecastParams struct {
	LocationName string
	Latitude     *float64
	Longitude    *float64
	Days         int // 0 means DefaultForecastDays
}

// HistoryParams is the flat argument set for historical queries.
type HistoryParams struct {
	LocationName string
	Latitude     *float64
	Longitude    *float64
	StartDate    string // YYYY-MM-DD
	EndDate      string // YYYY-MM-DD
}

// Service composes resolution, fetching and shaping for the three gateway
// operations. It holds no per-request state, so concurrent calls are
// independent and need no locking.
type Service struct {
	fetcher Fetcher
	profile AgroProfile
	now     func() time.Time
}

// NewService creates a new Service around the given upstream fetcher.
func NewService(fetcher Fetcher, profile AgroProfile) *Service {
	return &Service{
		fetcher: fetcher,
		profile: profile,
		now:     time.Now,
	}
}

// Forecast resolves the request, fetches the forecast series and shapes it.
// Errors from any stage are surfaced unchanged.
func (s *Service) Forecast(ctx context.Context, p ForecastParams) (*ForecastResult, error) {
	loc, rng, err := resolveForecast(p)
	if err != nil {
		return nil, err
	}
	raw, err := s.fetcher.FetchForecast(ctx, loc, rng.DaysAhead)
	if err != nil {
		return nil, err
	}
	return ShapeForecast(loc, raw)
}

// History resolves the request, fetches the archive series and shapes it.
// No upstream call is made when the range is invalid.
func (s *Service) History(ctx context.Context, p HistoryParams) (*HistoricalResult, error) {
	loc, err := ResolveLocation(p.LocationName, p.Latitude, p.Longitude)
	if err != nil {
		return nil, err
	}
	rng, err := ResolveHistoryRange(p.StartDate, p.EndDate, s.now())
	if err != nil {
		return nil, err
	}
	raw, err := s.fetcher.FetchArchive(ctx, loc, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}
	return ShapeHistory(loc, raw)
}

// Agricultural resolves the request, fetches the forecast series and derives
// the agricultural signals from it.
func (s *Service) Agricultural(ctx context.Context, p ForecastParams) (*AgriculturalAssessment, error) {
	loc, rng, err := resolveForecast(p)
	if err != nil {
		return nil, err
	}
	raw, err := s.fetcher.FetchForecast(ctx, loc, rng.DaysAhead)
	if err != nil {
		return nil, err
	}
	return ShapeAgricultural(loc, raw, s.profile)
}

func resolveForecast(p ForecastParams) (LocationQuery, TimeRange, error) {
	loc, err := ResolveLocation(p.LocationName, p.Latitude, p.Longitude)
	if err != nil {
		return LocationQuery{}, TimeRange{}, err
	}
	days := p.Days
	if days == 0 {
		days = DefaultForecastDays
	}
	rng, err := ResolveForecastRange(days)
	if err != nil {
		return LocationQuery{}, TimeRange{}, err
	}
	return loc, rng, nil
}
