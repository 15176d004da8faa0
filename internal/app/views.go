package app

import (
	"context"
	"fmt"
	"io"

	"github.com/i474232898/weatherdesk/internal/export"
	"github.com/i474232898/weatherdesk/internal/weather"
)

// SeriesView is a chartable series with its captions.
type SeriesView struct {
	City      string          `json:"city"`
	Metric    weather.Metric  `json:"metric"`
	Title     string          `json:"title"`
	AxisLabel string          `json:"axis_label"`
	Units     weather.Units   `json:"units"`
	Points    []weather.Point `json:"points"`
}

// DailyView is the per-day forecast of the latest report.
type DailyView struct {
	City      string                 `json:"city"`
	Units     weather.Units          `json:"units"`
	TempUnit  string                 `json:"temp_unit"`
	SpeedUnit string                 `json:"speed_unit"`
	Days      []weather.DailySummary `json:"days"`
}

// Current returns the latest report.
func (c *Controller) Current() (weather.Report, error) {
	return c.reports.Latest()
}

// Daily aggregates the latest forecast into daily summaries.
func (c *Controller) Daily() (DailyView, error) {
	r, err := c.reports.Latest()
	if err != nil {
		return DailyView{}, err
	}
	return DailyView{
		City:      r.Current.Location(),
		Units:     r.Units,
		TempUnit:  r.Units.TemperatureLabel(),
		SpeedUnit: r.Units.SpeedLabel(),
		Days:      weather.AggregateDaily(r.Forecast, c.loc),
	}, nil
}

// Series projects the latest forecast onto metric.
func (c *Controller) Series(metric string) (SeriesView, error) {
	m, err := weather.ParseMetric(metric)
	if err != nil {
		return SeriesView{}, err
	}
	r, err := c.reports.Latest()
	if err != nil {
		return SeriesView{}, err
	}
	points, err := weather.ExtractSeries(r.Forecast, m)
	if err != nil {
		return SeriesView{}, err
	}
	return SeriesView{
		City:      r.Current.Location(),
		Metric:    m,
		Title:     m.Title(),
		AxisLabel: m.AxisLabel(r.Units),
		Units:     r.Units,
		Points:    points,
	}, nil
}

// Export writes the latest report to w.
func (c *Controller) Export(w io.Writer, f export.Format) error {
	r, err := c.reports.Latest()
	if err != nil {
		return err
	}
	if err := export.Write(w, f, r, c.loc); err != nil {
		c.logger.Error("error exporting data", "format", f, "error", err)
		return err
	}
	c.logger.Info("weather data exported", "format", f, "city", r.City)
	return nil
}

// Import replaces the latest report with a JSON dump.
func (c *Controller) Import(r io.Reader) (weather.Report, error) {
	report, err := export.ReadJSON(r)
	if err != nil {
		c.logger.Error("error importing data", "error", err)
		return weather.Report{}, err
	}

	c.reports.Save(report)
	c.mu.Lock()
	c.city = report.City
	c.mu.Unlock()
	c.setStatus(Status{Message: fmt.Sprintf("Weather data for %s imported", report.City)})
	c.logger.Info("weather data imported", "city", report.City)
	return report, nil
}

// Icon returns the image for a provider icon code.
func (c *Controller) Icon(ctx context.Context, code string) ([]byte, error) {
	if c.icons == nil {
		return nil, fmt.Errorf("icons are not configured")
	}
	img, err := c.icons.Get(ctx, code)
	if err != nil {
		c.logger.Error("error loading weather icon", "code", code, "error", err)
		return nil, err
	}
	return img, nil
}

// Logs returns the application log.
func (c *Controller) Logs() (string, error) {
	if c.logs == nil {
		return "", nil
	}
	return c.logs.Read()
}

// ClearLogs truncates the application log.
func (c *Controller) ClearLogs() error {
	if c.logs == nil {
		return nil
	}
	return c.logs.Clear()
}
