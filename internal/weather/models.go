package weather

import (
	"fmt"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Units is the unit system used both for the provider query and for labels.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// Valid reports whether u is a supported unit system.
func (u Units) Valid() bool {
	return u == UnitsMetric || u == UnitsImperial
}

// TemperatureLabel returns the temperature suffix shown next to values.
func (u Units) TemperatureLabel() string {
	if u == UnitsImperial {
		return "°F"
	}
	return "°C"
}

// SpeedLabel returns the wind speed unit for u.
func (u Units) SpeedLabel() string {
	if u == UnitsImperial {
		return "mph"
	}
	return "m/s"
}

// Sample is a single provider observation or forecast step.
// Timestamp is in epoch seconds as delivered by the provider.
type Sample struct {
	Timestamp   int64     `json:"dt"`
	Temperature float64   `json:"temp"`
	FeelsLike   float64   `json:"feels_like"`
	TempMin     float64   `json:"temp_min"`
	TempMax     float64   `json:"temp_max"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	WindSpeed   float64   `json:"wind_speed"`
	WindDeg     float64   `json:"wind_deg"`
	Clouds      float64   `json:"clouds"`
	ConditionID int       `json:"condition_id"`
	Condition   Condition `json:"condition"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
}

// Time returns the sample timestamp in the given location (nil means time.Local).
func (s Sample) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(s.Timestamp, 0).In(loc)
}

// WindDirection returns the 16-point compass label of the sample's wind.
func (s Sample) WindDirection() string {
	return CompassDirection(s.WindDeg)
}

// CurrentConditions is the current-weather record for a resolved location.
type CurrentConditions struct {
	Sample

	Name       string `json:"name"`
	Country    string `json:"country"`
	Sunrise    int64  `json:"sunrise"`
	Sunset     int64  `json:"sunset"`
	Visibility int    `json:"visibility"` // meters
}

// Location returns the display name, e.g. "London, GB".
func (c CurrentConditions) Location() string {
	if c.Country == "" {
		return c.Name
	}
	return fmt.Sprintf("%s, %s", c.Name, c.Country)
}

// VisibilityKm converts the visibility to kilometers.
func (c CurrentConditions) VisibilityKm() float64 {
	return float64(c.Visibility) / 1000
}

// ForecastSeries is the chronologically ordered forecast of a single provider response.
type ForecastSeries []Sample

// DailySummary is the representative forecast sample of one calendar day.
type DailySummary struct {
	Date    string `json:"date"` // 2006-01-02
	Weekday string `json:"weekday"`
	Sample  Sample `json:"sample"`
}

// Report is the result of one successful fetch. A new Report replaces the previous one.
type Report struct {
	City      string            `json:"city"`
	Units     Units             `json:"units"`
	FetchedAt int64             `json:"fetched_at"`
	Current   CurrentConditions `json:"current"`
	Forecast  ForecastSeries    `json:"forecast"`
}

// Query identifies what to fetch from a provider.
type Query struct {
	City   string `validate:"required"`
	Units  Units  `validate:"required,oneof=metric imperial"`
	APIKey string
}

// Key returns a canonical key for de-duplicating identical requests.
func (q Query) Key() string {
	return q.City + ":" + string(q.Units) + ":" + q.APIKey
}

// Place is a coarse location resolved from the caller's IP address.
type Place struct {
	City      string  `json:"city"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
