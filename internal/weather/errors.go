package weather

import "errors"

var (
	// ErrValidation is returned when user input is rejected before any request is made.
	ErrValidation = errors.New("validation failed")
	// ErrCredentialRequired is returned when no API key has been configured.
	ErrCredentialRequired = errors.New("api key is required")
	// ErrUnauthorized is returned when the provider rejects the API key.
	ErrUnauthorized = errors.New("api key rejected by provider")
	// ErrCityNotFound is returned when the provider cannot resolve the city.
	ErrCityNotFound = errors.New("city not found")
	// ErrNetwork wraps transport failures and timeouts.
	ErrNetwork = errors.New("network error")
	// ErrMalformedResponse is returned when a provider payload cannot be decoded.
	ErrMalformedResponse = errors.New("malformed provider response")
	// ErrUpstream is returned for rate limiting, server errors and open circuits.
	ErrUpstream = errors.New("provider unavailable")
	// ErrInvalidMetric is returned for an unknown chart metric.
	ErrInvalidMetric = errors.New("invalid metric")
	// ErrLocationUnknown is returned when geolocation yields no city.
	ErrLocationUnknown = errors.New("could not determine city from IP address")
)

// ErrorKind maps an error onto the user-facing taxonomy label.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidMetric):
		return "validation"
	case errors.Is(err, ErrCredentialRequired), errors.Is(err, ErrUnauthorized):
		return "credential"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, ErrCityNotFound):
		return "not_found"
	case errors.Is(err, ErrNetwork), errors.Is(err, ErrUpstream):
		return "network"
	default:
		return "unexpected"
	}
}

// NeedsCredential reports whether err should send the user to the settings surface.
func NeedsCredential(err error) bool {
	return errors.Is(err, ErrCredentialRequired) || errors.Is(err, ErrUnauthorized)
}
