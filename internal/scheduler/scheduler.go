package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weatherdesk/internal/prefs"
)

// Refresher is triggered on every auto-refresh tick.
type Refresher interface {
	AutoRefresh()
}

// Scheduler runs the auto-refresh job at a configurable interval.
type Scheduler struct {
	mu        sync.Mutex
	scheduler *gocron.Scheduler
	refresher Refresher
	logger    *slog.Logger

	enabled  bool
	interval int // minutes
}

// New creates a new Scheduler.
func New(refresher Refresher, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	// AutoRefresh only dispatches a fetch, so ticks never overlap; overlapping fetches are
	// resolved by the controller.
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		refresher: refresher,
		logger:    logger,
	}
}

// Start starts the underlying scheduler.
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

// Apply replaces the auto-refresh job. The first tick happens one interval from now
// and the job repeats whether or not the previous fetch succeeded. Intervals are clamped
// to the minimum; the applied interval is returned.
func (s *Scheduler) Apply(enabled bool, minutes int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	minutes = prefs.ClampInterval(minutes)
	s.scheduler.Clear()
	s.enabled = enabled
	s.interval = minutes

	if !enabled {
		s.logger.Info("auto-refresh disabled")
		return minutes, nil
	}

	_, err := s.scheduler.Every(minutes).Minutes().WaitForSchedule().Do(func() {
		s.logger.Info("auto-refresh: running weather fetch")
		s.refresher.AutoRefresh()
	})
	if err != nil {
		s.enabled = false
		return minutes, err
	}

	s.logger.Info("auto-refresh enabled", "interval_minutes", minutes)
	return minutes, nil
}

// Enabled reports whether a refresh job is scheduled and its interval in minutes.
func (s *Scheduler) Enabled() (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled, s.interval
}

// NextRun returns the time of the next scheduled refresh, if any.
func (s *Scheduler) NextRun() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return time.Time{}, false
	}
	_, next := s.scheduler.NextRun()
	return next, !next.IsZero()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
