package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weatherdesk/internal/weather"
)

func sampleReport() weather.Report {
	base := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC).Unix()
	return weather.Report{
		City:      "London",
		Units:     weather.UnitsMetric,
		FetchedAt: base,
		Current: weather.CurrentConditions{
			Sample: weather.Sample{
				Timestamp:   base,
				Temperature: 11.2,
				FeelsLike:   10,
				Humidity:    81,
				Pressure:    1012,
				WindSpeed:   4.6,
				Description: "broken clouds",
			},
			Name:    "London",
			Country: "GB",
		},
		Forecast: weather.ForecastSeries{
			{Timestamp: base + 3*3600, Temperature: 12.5, TempMin: 11, TempMax: 13, Description: "light rain", Humidity: 70, WindSpeed: 3},
			{Timestamp: base + 6*3600, Temperature: 9, TempMin: 8.5, TempMax: 9.5, Description: "clear sky", Humidity: 65, WindSpeed: 2.25},
		},
	}
}

func TestWriteCSVLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport(), time.UTC))

	want := strings.Join([]string{
		"City,Date,Temperature,Feels Like,Description,Humidity,Pressure,Wind Speed",
		`"London, GB",2024-03-04 12:00,11.2,10,broken clouds,81,1012,4.6`,
		"",
		"Forecast",
		"Date,Temperature,Min Temp,Max Temp,Description,Humidity,Wind Speed",
		"2024-03-04 15:00,12.5,11,13,light rain,70,3",
		"2024-03-04 18:00,9,8.5,9.5,clear sky,65,2.25",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestJSONRoundTrip(t *testing.T) {
	report := sampleReport()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, report, time.UTC))
	assert.Contains(t, buf.String(), "\n  \"city\": \"London\"")

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, report, got)
}

func TestReadJSONRejectsGarbage(t *testing.T) {
	_, err := ReadJSON(strings.NewReader("not json"))
	assert.ErrorIs(t, err, weather.ErrMalformedResponse)

	_, err = ReadJSON(strings.NewReader(`{"city":"Oslo","units":"kelvin"}`))
	assert.ErrorIs(t, err, weather.ErrMalformedResponse)

	_, err = ReadJSON(strings.NewReader(`{"city":"Oslo","units":"metric","extra":true}`))
	assert.ErrorIs(t, err, weather.ErrMalformedResponse)
}

func TestFormats(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.ErrorIs(t, err, weather.ErrValidation)

	f, err = FormatFromFilename("/tmp/dump.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = FormatFromFilename("dump")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	assert.Equal(t, "text/csv; charset=utf-8", FormatCSV.ContentType())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
}

func TestDefaultFilename(t *testing.T) {
	now := time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "weather_data_London_20240131.json", DefaultFilename("London", now, FormatJSON))
	assert.Equal(t, "weather_data_New_York_20240131.csv", DefaultFilename("New York", now, FormatCSV))
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("xml"), sampleReport(), time.UTC)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
