package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/i474232898/weatherdesk/internal/prefs"
)

// PreferenceFile persists Preferences as an indented JSON document.
type PreferenceFile struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewPreferenceFile creates a store backed by path.
func NewPreferenceFile(path string, logger *slog.Logger) *PreferenceFile {
	if logger == nil {
		logger = slog.Default()
	}
	return &PreferenceFile{path: path, logger: logger}
}

// Path returns the backing file path.
func (f *PreferenceFile) Path() string {
	return f.path
}

// Load reads the file and merges it over the defaults. It never fails: a missing or
// unreadable file yields the defaults, and unknown or invalid values are repaired.
func (f *PreferenceFile) Load() prefs.Preferences {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := prefs.Defaults()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Error("error loading config", "path", f.path, "error", err)
		}
		return p
	}

	// decoding over the defaults keeps every field the file does not mention
	if err := json.Unmarshal(data, &p); err != nil {
		f.logger.Error("error loading config", "path", f.path, "error", err)
		return prefs.Defaults()
	}

	p.Normalize()
	return p
}

// Save writes the whole record, replacing the file atomically.
func (f *PreferenceFile) Save(p prefs.Preferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}

	f.logger.Info("configuration saved successfully", "path", f.path)
	return nil
}
