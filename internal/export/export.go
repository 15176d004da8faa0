// Package export writes the current report to JSON or CSV and reads JSON dumps back.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weatherdesk/internal/weather"
)

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ErrUnknownFormat is returned for an unsupported export format.
var ErrUnknownFormat = fmt.Errorf("%w: unknown export format", weather.ErrValidation)

const dateLayout = "2006-01-02 15:04"

var (
	currentHeader  = []string{"City", "Date", "Temperature", "Feels Like", "Description", "Humidity", "Pressure", "Wind Speed"}
	forecastHeader = []string{"Date", "Temperature", "Min Temp", "Max Temp", "Description", "Humidity", "Wind Speed"}
)

// ParseFormat validates a format name; an empty name means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromFilename picks the format from a file extension.
func FormatFromFilename(name string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, name)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// DefaultFilename suggests a file name such as weather_data_London_20240131.json.
func DefaultFilename(city string, now time.Time, f Format) string {
	city = unsafeFilename.ReplaceAllString(strings.TrimSpace(city), "_")
	return fmt.Sprintf("weather_data_%s_%s.%s", city, now.Format("20060102"), f)
}

// Write encodes report to w in format f. Dates in the CSV table use loc (nil means local time).
func Write(w io.Writer, f Format, report weather.Report, loc *time.Location) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, report)
	case FormatCSV:
		return WriteCSV(w, report, loc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// WriteJSON dumps the report as indented JSON.
func WriteJSON(w io.Writer, report weather.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// ReadJSON decodes a dump written by WriteJSON.
func ReadJSON(r io.Reader) (weather.Report, error) {
	var report weather.Report
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&report); err != nil {
		return weather.Report{}, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}
	if !report.Units.Valid() {
		return weather.Report{}, fmt.Errorf("%w: unknown units %q", weather.ErrMalformedResponse, report.Units)
	}
	return report, nil
}

// WriteCSV writes the current conditions row, a blank separator and the forecast table.
func WriteCSV(w io.Writer, report weather.Report, loc *time.Location) error {
	cw := csv.NewWriter(w)
	cur := report.Current

	rows := [][]string{
		currentHeader,
		{
			cur.Location(),
			cur.Time(loc).Format(dateLayout),
			num(cur.Temperature),
			num(cur.FeelsLike),
			cur.Description,
			num(cur.Humidity),
			num(cur.Pressure),
			num(cur.WindSpeed),
		},
		{},
		{"Forecast"},
		forecastHeader,
	}
	for _, s := range report.Forecast {
		rows = append(rows, []string{
			s.Time(loc).Format(dateLayout),
			num(s.Temperature),
			num(s.TempMin),
			num(s.TempMax),
			s.Description,
			num(s.Humidity),
			num(s.WindSpeed),
		})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
