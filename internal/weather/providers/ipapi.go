package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weatherdesk/internal/metrics"
	"github.com/i474232898/weatherdesk/internal/weather"
)

// DefaultGeolocationURL is the ipapi.co endpoint for the caller's own address.
const DefaultGeolocationURL = "https://ipapi.co/json/"

// IPLocator implements weather.Locator using ipapi.co.
type IPLocator struct {
	url     string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewIPLocator(client *http.Client, url string) *IPLocator {
	if url == "" {
		url = DefaultGeolocationURL
	}
	return &IPLocator{
		url:     url,
		client:  client,
		circuit: newBreaker("ipapi"),
	}
}

// Locate resolves the city of the caller's public IP address.
func (l *IPLocator) Locate(ctx context.Context) (place weather.Place, err error) {
	start := time.Now()
	defer func() { metrics.RecordProviderCall("ipapi", "locate", time.Since(start), err) }()

	resp, err := doRequest(ctx, l.client, l.circuit, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	})
	if err != nil {
		return weather.Place{}, err
	}

	// ipapi.co reports failures such as rate limiting with a 200 and an error flag.
	var payload struct {
		Error     bool    `json:"error"`
		Reason    string  `json:"reason"`
		City      string  `json:"city"`
		Region    string  `json:"region"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := decodeJSON(resp, &payload); err != nil {
		return weather.Place{}, err
	}
	if payload.Error {
		return weather.Place{}, fmt.Errorf("%w: %s", weather.ErrUpstream, payload.Reason)
	}
	if strings.TrimSpace(payload.City) == "" {
		return weather.Place{}, weather.ErrLocationUnknown
	}

	return weather.Place{
		City:      payload.City,
		Region:    payload.Region,
		Country:   payload.Country,
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
	}, nil
}
