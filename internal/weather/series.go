package weather

import "fmt"

// Metric selects the forecast field projected into a chart series.
type Metric string

const (
	MetricTemperature Metric = "temperature"
	MetricHumidity    Metric = "humidity"
	MetricPressure    Metric = "pressure"
	MetricWindSpeed   Metric = "wind_speed"
)

// Metrics lists the supported metrics in display order.
var Metrics = []Metric{MetricTemperature, MetricHumidity, MetricPressure, MetricWindSpeed}

// Point is one (timestamp, value) pair of a chart series.
type Point struct {
	Timestamp int64   `json:"dt"`
	Value     float64 `json:"value"`
}

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	m := Metric(s)
	if _, err := m.value(Sample{}); err != nil {
		return "", err
	}
	return m, nil
}

func (m Metric) value(s Sample) (float64, error) {
	switch m {
	case MetricTemperature:
		return s.Temperature, nil
	case MetricHumidity:
		return s.Humidity, nil
	case MetricPressure:
		return s.Pressure, nil
	case MetricWindSpeed:
		return s.WindSpeed, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMetric, string(m))
	}
}

// Title returns the chart title for m.
func (m Metric) Title() string {
	switch m {
	case MetricTemperature:
		return "Temperature Forecast"
	case MetricHumidity:
		return "Humidity Forecast"
	case MetricPressure:
		return "Pressure Forecast"
	case MetricWindSpeed:
		return "Wind Speed Forecast"
	}
	return ""
}

// AxisLabel returns the y-axis caption for m in the given unit system.
func (m Metric) AxisLabel(u Units) string {
	switch m {
	case MetricTemperature:
		return fmt.Sprintf("Temperature (%s)", u.TemperatureLabel())
	case MetricHumidity:
		return "Humidity (%)"
	case MetricPressure:
		return "Pressure (hPa)"
	case MetricWindSpeed:
		return fmt.Sprintf("Wind Speed (%s)", u.SpeedLabel())
	}
	return ""
}

// ExtractSeries projects every sample of series onto metric, preserving order.
func ExtractSeries(series ForecastSeries, metric Metric) ([]Point, error) {
	if _, err := metric.value(Sample{}); err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(series))
	for _, s := range series {
		v, _ := metric.value(s)
		points = append(points, Point{Timestamp: s.Timestamp, Value: v})
	}
	return points, nil
}
