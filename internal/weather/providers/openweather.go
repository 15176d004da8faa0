package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weatherdesk/internal/metrics"
	"github.com/i474232898/weatherdesk/internal/weather"
)

const (
	// DefaultOpenWeatherBaseURL is the OpenWeatherMap 2.5 API root.
	DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	// DefaultOpenWeatherIconURL is the OpenWeatherMap icon root.
	DefaultOpenWeatherIconURL = "https://openweathermap.org/img/wn"
)

// maxIconSize caps downloaded icon images.
const maxIconSize = 1 << 20

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name        string
	baseURL     string
	iconURL     string
	client      *http.Client
	iconClient  *http.Client
	circuit     *gobreaker.CircuitBreaker
	iconCircuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider creates the provider. client is used for weather calls and
// iconClient (usually with a shorter timeout) for icon downloads; empty URLs use the defaults.
func NewOpenWeatherProvider(client, iconClient *http.Client, baseURL, iconURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	if iconURL == "" {
		iconURL = DefaultOpenWeatherIconURL
	}
	if iconClient == nil {
		iconClient = client
	}

	return &OpenWeatherProvider{
		name:        "openweathermap",
		baseURL:     strings.TrimRight(baseURL, "/"),
		iconURL:     strings.TrimRight(iconURL, "/"),
		client:      client,
		iconClient:  iconClient,
		circuit:     newBreaker("openweathermap"),
		iconCircuit: newBreaker("openweathermap-icons"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// owmCondition is an entry of the "weather" array.
type owmCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// owmEntry holds the fields shared by the current and forecast payloads.
type owmEntry struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Weather []owmCondition `json:"weather"`
}

func (e owmEntry) sample() weather.Sample {
	s := weather.Sample{
		Timestamp:   e.Dt,
		Temperature: e.Main.Temp,
		FeelsLike:   e.Main.FeelsLike,
		TempMin:     e.Main.TempMin,
		TempMax:     e.Main.TempMax,
		Humidity:    e.Main.Humidity,
		Pressure:    e.Main.Pressure,
		WindSpeed:   e.Wind.Speed,
		WindDeg:     e.Wind.Deg,
		Clouds:      e.Clouds.All,
		Condition:   mapOpenWeatherCondition(e.Weather),
	}
	if len(e.Weather) > 0 {
		s.ConditionID = e.Weather[0].ID
		s.Description = e.Weather[0].Description
		s.Icon = e.Weather[0].Icon
	}
	return s
}

func (p *OpenWeatherProvider) Current(ctx context.Context, q weather.Query) (cur weather.CurrentConditions, err error) {
	start := time.Now()
	defer func() { metrics.RecordProviderCall(p.name, "current", time.Since(start), err) }()

	resp, err := doRequest(ctx, p.client, p.circuit, p.buildRequest("/weather", q))
	if err != nil {
		return weather.CurrentConditions{}, err
	}

	var payload struct {
		owmEntry
		Name       string `json:"name"`
		Visibility int    `json:"visibility"`
		Sys        struct {
			Country string `json:"country"`
			Sunrise int64  `json:"sunrise"`
			Sunset  int64  `json:"sunset"`
		} `json:"sys"`
	}
	if err := decodeJSON(resp, &payload); err != nil {
		return weather.CurrentConditions{}, err
	}
	if payload.Dt == 0 || len(payload.Weather) == 0 {
		return weather.CurrentConditions{}, fmt.Errorf("%w: missing dt or weather fields", weather.ErrMalformedResponse)
	}

	return weather.CurrentConditions{
		Sample:     payload.sample(),
		Name:       payload.Name,
		Country:    payload.Sys.Country,
		Sunrise:    payload.Sys.Sunrise,
		Sunset:     payload.Sys.Sunset,
		Visibility: payload.Visibility,
	}, nil
}

func (p *OpenWeatherProvider) Forecast(ctx context.Context, q weather.Query) (series weather.ForecastSeries, err error) {
	start := time.Now()
	defer func() { metrics.RecordProviderCall(p.name, "forecast", time.Since(start), err) }()

	resp, err := doRequest(ctx, p.client, p.circuit, p.buildRequest("/forecast", q))
	if err != nil {
		return nil, err
	}

	var payload struct {
		List []owmEntry `json:"list"`
	}
	if err := decodeJSON(resp, &payload); err != nil {
		return nil, err
	}
	if payload.List == nil {
		return nil, fmt.Errorf("%w: missing forecast list", weather.ErrMalformedResponse)
	}

	series = make(weather.ForecastSeries, 0, len(payload.List))
	for _, e := range payload.List {
		series = append(series, e.sample())
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Timestamp < series[j].Timestamp
	})
	return series, nil
}

// Icon downloads the PNG for an OpenWeatherMap icon code such as "10d".
func (p *OpenWeatherProvider) Icon(ctx context.Context, code string) (img []byte, err error) {
	start := time.Now()
	defer func() { metrics.RecordProviderCall(p.name, "icon", time.Since(start), err) }()

	build := func(ctx context.Context) (*http.Request, error) {
		u := fmt.Sprintf("%s/%s@2x.png", p.iconURL, url.PathEscape(code))
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.iconClient, p.iconCircuit, build)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	img, err = io.ReadAll(io.LimitReader(resp.Body, maxIconSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrNetwork, err)
	}
	return img, nil
}

func (p *OpenWeatherProvider) buildRequest(path string, q weather.Query) func(ctx context.Context) (*http.Request, error) {
	return func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("q", q.City)
		values.Set("appid", q.APIKey)
		values.Set("units", string(q.Units))

		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}
}

func mapOpenWeatherCondition(items []owmCondition) weather.Condition {
	if len(items) == 0 {
		return weather.ConditionUnknown
	}
	switch items[0].Main {
	case "Clear":
		return weather.ConditionClear
	case "Clouds":
		return weather.ConditionCloudy
	case "Rain", "Drizzle":
		return weather.ConditionRain
	case "Snow":
		return weather.ConditionSnow
	case "Thunderstorm":
		return weather.ConditionStorm
	case "Mist", "Fog", "Haze", "Smoke", "Dust", "Sand", "Ash":
		return weather.ConditionMist
	default:
		return weather.ConditionUnknown
	}
}
