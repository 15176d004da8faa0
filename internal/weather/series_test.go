package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSeries(t *testing.T) {
	series := ForecastSeries{
		{Timestamp: 100, Temperature: 10.5, Humidity: 80, Pressure: 1012, WindSpeed: 3.2},
		{Timestamp: 200, Temperature: 11.5, Humidity: 75, Pressure: 1010, WindSpeed: 4.1},
	}

	tests := []struct {
		metric Metric
		want   []Point
	}{
		{MetricTemperature, []Point{{100, 10.5}, {200, 11.5}}},
		{MetricHumidity, []Point{{100, 80}, {200, 75}}},
		{MetricPressure, []Point{{100, 1012}, {200, 1010}}},
		{MetricWindSpeed, []Point{{100, 3.2}, {200, 4.1}}},
	}
	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			points, err := ExtractSeries(series, tt.metric)
			require.NoError(t, err)
			assert.Equal(t, tt.want, points)
		})
	}
}

func TestExtractSeriesInvalidMetric(t *testing.T) {
	_, err := ExtractSeries(ForecastSeries{{Timestamp: 1}}, Metric("rainfall"))
	assert.ErrorIs(t, err, ErrInvalidMetric)

	// rejected even without samples
	_, err = ExtractSeries(nil, Metric("rainfall"))
	assert.ErrorIs(t, err, ErrInvalidMetric)
}

func TestExtractSeriesEmpty(t *testing.T) {
	points, err := ExtractSeries(nil, MetricHumidity)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestMetricLabels(t *testing.T) {
	m, err := ParseMetric("wind_speed")
	require.NoError(t, err)
	assert.Equal(t, "Wind Speed Forecast", m.Title())
	assert.Equal(t, "Wind Speed (mph)", m.AxisLabel(UnitsImperial))
	assert.Equal(t, "Temperature (°C)", MetricTemperature.AxisLabel(UnitsMetric))

	_, err = ParseMetric("")
	assert.ErrorIs(t, err, ErrInvalidMetric)
}
