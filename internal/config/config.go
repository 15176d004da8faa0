package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type AppConfig struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Local files.
	PrefsFile string `envconfig:"PREFS_FILE" default:"weather_config.json" validate:"required"`
	LogFile   string `envconfig:"LOG_FILE" default:"weather_app.log" validate:"required"`

	// Outbound call bounds. Weather calls are slower than icon and geolocation lookups.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s" validate:"gt=0"`
	IconTimeout time.Duration `envconfig:"ICON_TIMEOUT" default:"5s" validate:"gt=0"`
	GeoTimeout  time.Duration `envconfig:"GEO_TIMEOUT" default:"5s" validate:"gt=0"`

	OpenWeatherBaseURL string `envconfig:"OPENWEATHER_BASE_URL" default:"https://api.openweathermap.org/data/2.5" validate:"required,url"`
	OpenWeatherIconURL string `envconfig:"OPENWEATHER_ICON_URL" default:"https://openweathermap.org/img/wn" validate:"required,url"`
	GeolocationURL     string `envconfig:"GEOLOCATION_URL" default:"https://ipapi.co/json/" validate:"required,url"`

	// Timezone used to group forecast samples into calendar days. "Local" is the host zone.
	Timezone string `envconfig:"TIMEZONE" default:"Local"`
}

// Load reads configuration from the environment (and an optional .env file) with
// sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location resolves the configured timezone.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	return loc, nil
}
