package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weatherdesk/internal/weather"
)

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errNoHTTPClient = errors.New("http client not configured")
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 4 << 10

// breakerTripAfter is the number of consecutive upstream failures that opens a breaker.
const breakerTripAfter = 10

// newBreaker returns a breaker that opens only after a sustained outage and half-opens
// again after 30s, so an open breaker rejects user-triggered fetches briefly.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripAfter
		},
	})
}

// doRequest executes a single HTTP attempt through the circuit breaker. There is no retry;
// the context and client timeout are the only bounds. Transport failures, rate limiting and
// server errors count against the breaker. Other non-2xx codes are mapped to domain errors.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	buildRequest func(ctx context.Context) (*http.Request, error),
) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	req, err := buildRequest(ctx)
	if err != nil {
		return nil, err
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			drain(resp)
			return nil, errRateLimited
		}
		if resp.StatusCode >= 500 {
			drain(resp)
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}

		return resp, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return nil, fmt.Errorf("%w: circuit breaker open: %v", weather.ErrUpstream, err)
		case errors.Is(err, errRateLimited), errors.Is(err, errServerError):
			return nil, fmt.Errorf("%w: %v", weather.ErrUpstream, err)
		default:
			return nil, fmt.Errorf("%w: %v", weather.ErrNetwork, err)
		}
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}

	if err := checkStatus(resp); err != nil {
		drain(resp)
		return nil, err
	}
	return resp, nil
}

// checkStatus maps client error codes to domain errors, keeping the provider's message.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg := errorMessage(resp)
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", weather.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", weather.ErrCityNotFound, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", weather.ErrValidation, msg)
	default:
		return fmt.Errorf("%w: status %d: %s", weather.ErrUpstream, resp.StatusCode, msg)
	}
}

func errorMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Message string `json:"message"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Reason != "" {
			return payload.Reason
		}
	}
	if len(body) > 0 {
		return string(body)
	}
	return http.StatusText(resp.StatusCode)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
}

// decodeJSON decodes a provider payload, mapping failures to ErrMalformedResponse.
func decodeJSON(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}
	return nil
}
