package prefs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weatherdesk/internal/weather"
)

func TestDefaults(t *testing.T) {
	p := Defaults()
	assert.Equal(t, "", p.APIKey)
	assert.Equal(t, weather.UnitsMetric, p.Units)
	assert.Equal(t, ThemeLight, p.Theme)
	assert.Equal(t, "openweathermap", p.ActiveAPI)
	assert.False(t, p.AutoRefresh)
	assert.Equal(t, 30, p.RefreshInterval)
	assert.Empty(t, p.SearchHistory)
	assert.Empty(t, p.FavoriteCities)
}

func TestAddSearchDedupesAndCaps(t *testing.T) {
	p := Defaults()

	assert.True(t, p.AddSearch("London"))
	assert.False(t, p.AddSearch("London"))
	assert.False(t, p.AddSearch("   "))
	assert.Equal(t, []string{"London"}, p.SearchHistory)

	for i := 0; i < 25; i++ {
		p.AddSearch(fmt.Sprintf("City %d", i))
	}
	require.Len(t, p.SearchHistory, MaxSearchHistory)
	assert.Equal(t, "City 5", p.SearchHistory[0])
	assert.Equal(t, "City 24", p.SearchHistory[MaxSearchHistory-1])
	assert.NotContains(t, p.SearchHistory, "London")
}

func TestToggleFavorite(t *testing.T) {
	p := Defaults()

	added, err := p.ToggleFavorite("Paris")
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, p.IsFavorite("Paris"))

	added, err = p.ToggleFavorite("Paris")
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, p.IsFavorite("Paris"))

	_, err = p.ToggleFavorite("")
	assert.ErrorIs(t, err, weather.ErrValidation)
}

func TestRefreshInterval(t *testing.T) {
	p := Defaults()
	assert.Equal(t, 5, p.SetRefresh(true, 3))
	assert.True(t, p.AutoRefresh)
	assert.Equal(t, 60, p.SetRefresh(true, 60))

	n, err := ParseInterval(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, MinRefreshInterval, n)

	n, err = ParseInterval("60")
	require.NoError(t, err)
	assert.Equal(t, 60, n)

	_, err = ParseInterval("soon")
	assert.ErrorIs(t, err, weather.ErrValidation)
}

func TestSetters(t *testing.T) {
	p := Defaults()

	assert.ErrorIs(t, p.SetCredential("  "), weather.ErrValidation)
	require.NoError(t, p.SetCredential(" abc "))
	assert.Equal(t, "abc", p.APIKey)

	assert.ErrorIs(t, p.SetUnits("kelvin"), weather.ErrValidation)
	require.NoError(t, p.SetUnits(weather.UnitsImperial))
	assert.Equal(t, weather.UnitsImperial, p.Units)

	assert.ErrorIs(t, p.SetTheme("solarized"), weather.ErrValidation)
	require.NoError(t, p.SetTheme(ThemeDark))
	assert.Equal(t, ThemeDark, p.Theme)
}

func TestColors(t *testing.T) {
	p := Defaults()

	require.NoError(t, p.SetColor(ThemeDark, ElementAccent, "#ff8800"))
	assert.Equal(t, "#FF8800", p.Palette(ThemeDark)[ElementAccent])
	assert.Equal(t, "#2E2E2E", p.Palette(ThemeDark)[ElementBackground])
	assert.Equal(t, "#0078D7", p.Palette(ThemeLight)[ElementAccent])

	assert.ErrorIs(t, p.SetColor(ThemeDark, "border_color", "#000000"), weather.ErrValidation)
	assert.ErrorIs(t, p.SetColor(ThemeDark, ElementAccent, "orange"), weather.ErrValidation)
	assert.ErrorIs(t, p.SetColor("neon", ElementAccent, "#000000"), weather.ErrValidation)

	p.ResetColors()
	assert.Equal(t, "#007ACC", p.Palette(ThemeDark)[ElementAccent])
}

func TestCloneIsDeep(t *testing.T) {
	p := Defaults()
	p.AddSearch("Rome")
	require.NoError(t, p.SetColor(ThemeLight, ElementText, "#111111"))

	c := p.Clone()
	c.SearchHistory[0] = "Oslo"
	c.CustomColors[ThemeLight][ElementText] = "#222222"

	assert.Equal(t, "Rome", p.SearchHistory[0])
	assert.Equal(t, "#111111", p.CustomColors[ThemeLight][ElementText])
}

func TestNormalize(t *testing.T) {
	p := Preferences{
		Units:           "kelvin",
		Theme:           "neon",
		RefreshInterval: 2,
		FavoriteCities:  []string{"Oslo", "Oslo", " "},
		SearchHistory:   make([]string, 0, 30),
		CustomColors:    map[Theme]map[string]string{"neon": {ElementText: "#000000"}},
	}
	for i := 0; i < 30; i++ {
		p.SearchHistory = append(p.SearchHistory, fmt.Sprintf("City %d", i))
	}

	p.Normalize()
	assert.Equal(t, weather.UnitsMetric, p.Units)
	assert.Equal(t, ThemeLight, p.Theme)
	assert.Equal(t, MinRefreshInterval, p.RefreshInterval)
	assert.Equal(t, DefaultProvider, p.ActiveAPI)
	assert.Equal(t, []string{"Oslo"}, p.FavoriteCities)
	require.Len(t, p.SearchHistory, MaxSearchHistory)
	assert.Equal(t, "City 10", p.SearchHistory[0])
	assert.Empty(t, p.CustomColors)
}
