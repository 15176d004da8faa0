package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weatherdesk/internal/prefs"
	"github.com/i474232898/weatherdesk/internal/weather"
)

func TestPreferenceFileMissingYieldsDefaults(t *testing.T) {
	f := NewPreferenceFile(filepath.Join(t.TempDir(), "weather_config.json"), nil)
	assert.Equal(t, prefs.Defaults(), f.Load())
}

func TestPreferenceFileCorruptYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather_config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	f := NewPreferenceFile(path, nil)
	assert.Equal(t, prefs.Defaults(), f.Load())
}

func TestPreferenceFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather_config.json")
	doc := `{"api_key": "abc", "theme": "dark", "search_history": ["Oslo", "Oslo"], "future_option": 1}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	p := NewPreferenceFile(path, nil).Load()
	assert.Equal(t, "abc", p.APIKey)
	assert.Equal(t, prefs.ThemeDark, p.Theme)
	assert.Equal(t, weather.UnitsMetric, p.Units)
	assert.Equal(t, prefs.DefaultRefreshInterval, p.RefreshInterval)
	assert.Equal(t, []string{"Oslo"}, p.SearchHistory)
}

func TestPreferenceFileSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "weather_config.json")
	f := NewPreferenceFile(path, nil)

	p := prefs.Defaults()
	require.NoError(t, p.SetCredential("abc"))
	p.AddSearch("Lisbon")
	p.LastCity = "Lisbon"
	p.SetRefresh(true, 15)
	require.NoError(t, f.Save(p))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
	assert.Contains(t, string(data), "\n  \"api_key\": \"abc\"")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"api_key", "units", "theme", "custom_colors", "favorite_cities",
		"search_history", "active_api", "auto_refresh", "refresh_interval", "last_city"} {
		assert.Contains(t, raw, key)
	}

	assert.Equal(t, p, f.Load())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
