package applog

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogReadAndClear(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "logs", "weather_app.log"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	logger := l.Logger(slog.LevelInfo)
	logger.Info("weather updated", "city", "Oslo")
	logger.Debug("hidden")
	logger.Error("API request error", "error", "city not found")

	text, err := l.Read()
	require.NoError(t, err)
	assert.Contains(t, text, "level=INFO")
	assert.Contains(t, text, `msg="weather updated" city=Oslo`)
	assert.Contains(t, text, "level=ERROR")
	assert.NotContains(t, text, "hidden")

	require.NoError(t, l.Clear())
	text, err = l.Read()
	require.NoError(t, err)
	assert.Empty(t, text)

	// appends continue after a clear
	logger.Info("after clear")
	text, err = l.Read()
	require.NoError(t, err)
	assert.Contains(t, text, "after clear")
	assert.NotContains(t, text, "Oslo")
}

func TestLogReopenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather_app.log")

	l, err := Open(path)
	require.NoError(t, err)
	l.Logger(slog.LevelInfo).Info("first")
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	l.Logger(slog.LevelInfo).Info("second")

	text, err := l.Read()
	require.NoError(t, err)
	assert.Contains(t, text, "first")
	assert.Contains(t, text, "second")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
