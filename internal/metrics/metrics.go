package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider metrics
var (
	// ProviderRequestsTotal tracks provider calls by endpoint and outcome
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherdesk_provider_requests_total",
			Help: "Total number of weather provider requests",
		},
		[]string{"provider", "endpoint", "status"},
	)

	// ProviderRequestDuration tracks the latency of provider calls
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherdesk_provider_request_duration_seconds",
			Help:    "Duration of weather provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "endpoint"},
	)

	// IconLookupsTotal counts icon cache hits and misses
	IconLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherdesk_icon_lookups_total",
			Help: "Icon cache lookups by result",
		},
		[]string{"result"},
	)

	// FetchesApplied counts fetch results handed back to the controller
	FetchesApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherdesk_fetches_total",
			Help: "Fetch attempts by outcome (ok, error, stale)",
		},
		[]string{"outcome"},
	)

	// AppStartTime records when the application started
	AppStartTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "weatherdesk_app_start_time_seconds",
			Help: "Unix timestamp of when the application started",
		},
	)
)

func init() {
	AppStartTime.SetToCurrentTime()
}

// RecordProviderCall records one provider request.
func RecordProviderCall(provider, endpoint string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ProviderRequestsTotal.WithLabelValues(provider, endpoint, status).Inc()
	ProviderRequestDuration.WithLabelValues(provider, endpoint).Observe(duration.Seconds())
}

// RecordIconLookup records an icon cache hit or miss.
func RecordIconLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	IconLookupsTotal.WithLabelValues(result).Inc()
}

// RecordFetch records how a fetch result was handled.
func RecordFetch(outcome string) {
	FetchesApplied.WithLabelValues(outcome).Inc()
}
