// Package applog keeps the append-only application log. Records are slog text lines with
// a timestamp and level; the log can be read back and cleared but is never rotated.
package applog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Log is an append-only log file.
type Log struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// Open opens (or creates) the log file at path for appending.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return &Log{path: path, file: f}, nil
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Write appends p to the file. It serializes with Clear.
func (l *Log) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Write(p)
}

// Logger returns a slog.Logger writing text records to the log and to extra writers
// (typically stderr).
func (l *Log) Logger(level slog.Level, extra ...io.Writer) *slog.Logger {
	var w io.Writer = l
	if len(extra) > 0 {
		w = io.MultiWriter(append([]io.Writer{l}, extra...)...)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Read returns the whole log.
func (l *Log) Read() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read log file: %w", err)
	}
	return string(data), nil
}

// Clear truncates the log.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.file.Truncate(0); err != nil {
		return fmt.Errorf("failed to clear log file: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// ParseLevel converts a level name such as "debug" or "info" to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
