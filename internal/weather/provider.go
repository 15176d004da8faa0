package weather

import (
	"context"
)

// Provider abstracts a weather data source. OpenWeatherMap is the only implementation today.
type Provider interface {
	Name() string
	Current(ctx context.Context, q Query) (CurrentConditions, error)
	Forecast(ctx context.Context, q Query) (ForecastSeries, error)
	Icon(ctx context.Context, code string) ([]byte, error)
}

// Locator resolves the caller's approximate location.
type Locator interface {
	Locate(ctx context.Context) (Place, error)
}
