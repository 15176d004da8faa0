package weather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
)

var validate = validator.New()

// credentialProbeCity is the city used to check an API key.
const credentialProbeCity = "London"

// FetchResult is the resolved value of an asynchronous fetch.
type FetchResult struct {
	Query  Query
	Report Report
	Err    error
	// Shared is true when the result came from a fetch started by an identical request.
	Shared bool
}

// Service fetches current conditions and forecasts from a provider.
type Service struct {
	provider Provider
	timeout  time.Duration
	logger   *slog.Logger
	group    singleflight.Group
	now      func() time.Time
}

// NewService creates a new Service. timeout bounds each provider call.
func NewService(provider Provider, timeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
		now:      time.Now,
	}
}

// Provider returns the provider backing the service.
func (s *Service) Provider() Provider {
	return s.provider
}

// Validate checks a query before any request is issued.
func (s *Service) Validate(q Query) error {
	if strings.TrimSpace(q.City) == "" {
		return fmt.Errorf("%w: please enter a city name", ErrValidation)
	}
	if q.APIKey == "" {
		return ErrCredentialRequired
	}
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// Fetch retrieves current conditions and then the forecast for q.
// Both calls run sequentially, each bounded by the service timeout.
func (s *Service) Fetch(ctx context.Context, q Query) (Report, error) {
	if err := s.Validate(q); err != nil {
		return Report{}, err
	}

	s.logger.Debug("fetching weather", "provider", s.provider.Name(), "city", q.City, "units", q.Units)

	current, err := s.current(ctx, q)
	if err != nil {
		return Report{}, fmt.Errorf("current conditions for %s: %w", q.City, err)
	}

	forecast, err := s.forecast(ctx, q)
	if err != nil {
		return Report{}, fmt.Errorf("forecast for %s: %w", q.City, err)
	}

	return Report{
		City:      q.City,
		Units:     q.Units,
		FetchedAt: s.now().Unix(),
		Current:   current,
		Forecast:  forecast,
	}, nil
}

func (s *Service) current(ctx context.Context, q Query) (CurrentConditions, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.provider.Current(ctx, q)
}

func (s *Service) forecast(ctx context.Context, q Query) (ForecastSeries, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.provider.Forecast(ctx, q)
}

// FetchAsync starts a fetch in the background and returns a channel that receives
// exactly one result. Identical queries already in flight share a single fetch.
func (s *Service) FetchAsync(q Query) <-chan FetchResult {
	out := make(chan FetchResult, 1)

	ch := s.group.DoChan(q.Key(), func() (interface{}, error) {
		return s.Fetch(context.Background(), q)
	})

	go func() {
		res := <-ch
		r := FetchResult{Query: q, Err: res.Err, Shared: res.Shared}
		if report, ok := res.Val.(Report); ok && res.Err == nil {
			r.Report = report
		}
		out <- r
	}()

	return out
}

// VerifyCredential checks an API key with a probe request.
func (s *Service) VerifyCredential(ctx context.Context, apiKey string, units Units) error {
	if !units.Valid() {
		units = UnitsMetric
	}
	q := Query{City: credentialProbeCity, Units: units, APIKey: strings.TrimSpace(apiKey)}
	if err := s.Validate(q); err != nil {
		return err
	}
	_, err := s.current(ctx, q)
	return err
}
