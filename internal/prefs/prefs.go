// Package prefs holds the user preference record and the rules for changing it.
// Callers apply these rules before handing the record to a store.
package prefs

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weatherdesk/internal/weather"
)

const (
	// MaxSearchHistory bounds the search history; the oldest entries are dropped first.
	MaxSearchHistory = 20
	// MinRefreshInterval is the smallest auto-refresh interval in minutes.
	MinRefreshInterval = 5
	// DefaultRefreshInterval is used when nothing has been configured.
	DefaultRefreshInterval = 30
	// DefaultProvider is the only provider currently available.
	DefaultProvider = "openweathermap"
)

// Theme is the colour scheme of the presentation layer.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Preferences is the persisted user configuration.
type Preferences struct {
	APIKey          string                      `json:"api_key"`
	Units           weather.Units               `json:"units"`
	Theme           Theme                       `json:"theme"`
	CustomColors    map[Theme]map[string]string `json:"custom_colors"`
	FavoriteCities  []string                    `json:"favorite_cities"`
	SearchHistory   []string                    `json:"search_history"`
	ActiveAPI       string                      `json:"active_api"`
	AutoRefresh     bool                        `json:"auto_refresh"`
	RefreshInterval int                         `json:"refresh_interval"`
	LastCity        string                      `json:"last_city"`
}

var validate = validator.New()

// Defaults returns the built-in preferences.
func Defaults() Preferences {
	return Preferences{
		Units:           weather.UnitsMetric,
		Theme:           ThemeLight,
		CustomColors:    map[Theme]map[string]string{},
		FavoriteCities:  []string{},
		SearchHistory:   []string{},
		ActiveAPI:       DefaultProvider,
		AutoRefresh:     false,
		RefreshInterval: DefaultRefreshInterval,
	}
}

// Clone returns a deep copy so callers can't mutate shared slices or maps.
func (p Preferences) Clone() Preferences {
	out := p
	out.FavoriteCities = slices.Clone(p.FavoriteCities)
	out.SearchHistory = slices.Clone(p.SearchHistory)
	out.CustomColors = make(map[Theme]map[string]string, len(p.CustomColors))
	for theme, colors := range p.CustomColors {
		m := make(map[string]string, len(colors))
		for k, v := range colors {
			m[k] = v
		}
		out.CustomColors[theme] = m
	}
	return out
}

// AddSearch appends city to the history unless it is already present and keeps only the
// most recent MaxSearchHistory entries. It reports whether the history changed.
func (p *Preferences) AddSearch(city string) bool {
	city = strings.TrimSpace(city)
	if city == "" || slices.Contains(p.SearchHistory, city) {
		return false
	}
	p.SearchHistory = append(p.SearchHistory, city)
	if over := len(p.SearchHistory) - MaxSearchHistory; over > 0 {
		p.SearchHistory = slices.Clone(p.SearchHistory[over:])
	}
	return true
}

// ClearHistory empties the search history.
func (p *Preferences) ClearHistory() {
	p.SearchHistory = []string{}
}

// ToggleFavorite adds or removes city and reports whether it is now a favorite.
func (p *Preferences) ToggleFavorite(city string) (bool, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return false, fmt.Errorf("%w: no city selected", weather.ErrValidation)
	}
	if i := slices.Index(p.FavoriteCities, city); i >= 0 {
		p.FavoriteCities = slices.Delete(p.FavoriteCities, i, i+1)
		return false, nil
	}
	p.FavoriteCities = append(p.FavoriteCities, city)
	return true, nil
}

// IsFavorite reports whether city is in the favorites.
func (p Preferences) IsFavorite(city string) bool {
	return slices.Contains(p.FavoriteCities, city)
}

// SetCredential stores a new API key.
func (p *Preferences) SetCredential(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: please enter a valid API key", weather.ErrValidation)
	}
	p.APIKey = key
	return nil
}

// SetUnits switches the unit system.
func (p *Preferences) SetUnits(u weather.Units) error {
	if !u.Valid() {
		return fmt.Errorf("%w: unknown unit system %q", weather.ErrValidation, u)
	}
	p.Units = u
	return nil
}

// SetTheme switches the theme.
func (p *Preferences) SetTheme(t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("%w: unknown theme %q", weather.ErrValidation, t)
	}
	p.Theme = t
	return nil
}

// SetRefresh updates the auto-refresh settings. Intervals below MinRefreshInterval are
// raised to it; the applied interval is returned.
func (p *Preferences) SetRefresh(enabled bool, minutes int) int {
	p.AutoRefresh = enabled
	p.RefreshInterval = ClampInterval(minutes)
	return p.RefreshInterval
}

// ClampInterval raises an interval to MinRefreshInterval.
func ClampInterval(minutes int) int {
	if minutes < MinRefreshInterval {
		return MinRefreshInterval
	}
	return minutes
}

// ParseInterval parses interval text typed by the user. Non-numeric input is a
// validation error; numeric input is clamped.
func ParseInterval(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: please enter a valid number for refresh interval", weather.ErrValidation)
	}
	return ClampInterval(n), nil
}

// SetColor overrides one palette element of a theme.
func (p *Preferences) SetColor(theme Theme, element, hex string) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: unknown theme %q", weather.ErrValidation, theme)
	}
	if !slices.Contains(PaletteElements, element) {
		return fmt.Errorf("%w: unknown colour element %q", weather.ErrValidation, element)
	}
	if err := validate.Var(hex, "required,hexcolor"); err != nil {
		return fmt.Errorf("%w: invalid colour %q", weather.ErrValidation, hex)
	}

	if p.CustomColors == nil {
		p.CustomColors = map[Theme]map[string]string{}
	}
	if p.CustomColors[theme] == nil {
		p.CustomColors[theme] = map[string]string{}
	}
	p.CustomColors[theme][element] = strings.ToUpper(hex)
	return nil
}

// ResetColors drops every custom colour override.
func (p *Preferences) ResetColors() {
	p.CustomColors = map[Theme]map[string]string{}
}

// Normalize repairs a record loaded from disk: unknown enum values fall back to their
// defaults, lists are de-duplicated and the history and interval rules are re-applied.
func (p *Preferences) Normalize() {
	def := Defaults()
	if !p.Units.Valid() {
		p.Units = def.Units
	}
	if !p.Theme.Valid() {
		p.Theme = def.Theme
	}
	if p.ActiveAPI == "" {
		p.ActiveAPI = def.ActiveAPI
	}
	if p.RefreshInterval == 0 {
		p.RefreshInterval = def.RefreshInterval
	}
	p.RefreshInterval = ClampInterval(p.RefreshInterval)

	p.FavoriteCities = dedupe(p.FavoriteCities)
	history := dedupe(p.SearchHistory)
	if over := len(history) - MaxSearchHistory; over > 0 {
		history = history[over:]
	}
	p.SearchHistory = history

	if p.CustomColors == nil {
		p.CustomColors = map[Theme]map[string]string{}
	}
	for theme := range p.CustomColors {
		if !theme.Valid() {
			delete(p.CustomColors, theme)
		}
	}
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
