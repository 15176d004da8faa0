package store

import (
	"errors"
	"sync"

	"github.com/i474232898/weatherdesk/internal/weather"
)

var (
	// ErrNotFound is returned when no report has been fetched yet.
	ErrNotFound = errors.New("no weather data available")
)

// ReportStore is a concurrency-safe holder of the most recent weather report.
// Saving replaces the previous report wholesale; nothing is merged or kept.
type ReportStore struct {
	mu sync.RWMutex

	report *weather.Report
}

// NewReportStore creates an empty ReportStore.
func NewReportStore() *ReportStore {
	return &ReportStore{}
}

// Save replaces the stored report.
func (s *ReportStore) Save(report weather.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.report = &report
}

// Latest returns the stored report.
func (s *ReportStore) Latest() (weather.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.report == nil {
		return weather.Report{}, ErrNotFound
	}
	return *s.report, nil
}

// Clear drops the stored report.
func (s *ReportStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.report = nil
}
