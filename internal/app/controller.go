// Package app owns the application state. All preference mutations go through the
// Controller's named operations, which persist the record after every change, and fetch
// results are applied only by the Controller's Run loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weatherdesk/internal/metrics"
	"github.com/i474232898/weatherdesk/internal/prefs"
	"github.com/i474232898/weatherdesk/internal/store"
	"github.com/i474232898/weatherdesk/internal/weather"
)

// PreferenceStore loads and saves the preference record.
type PreferenceStore interface {
	Load() prefs.Preferences
	Save(p prefs.Preferences) error
}

// AutoRefresher schedules the repeating refresh.
type AutoRefresher interface {
	Apply(enabled bool, minutes int) (int, error)
}

// LogView exposes the application log to the presentation layer.
type LogView interface {
	Read() (string, error)
	Clear() error
}

// Status is the status line shown to the user.
type Status struct {
	Message         string    `json:"message"`
	Error           string    `json:"error,omitempty"`
	ErrorKind       string    `json:"error_kind,omitempty"`
	NeedsCredential bool      `json:"needs_credential"`
	Fetching        bool      `json:"fetching"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Ticket identifies a dispatched fetch.
type Ticket struct {
	ID    string        `json:"id"`
	Seq   uint64        `json:"seq"`
	City  string        `json:"city"`
	Units weather.Units `json:"units"`
}

type outcome struct {
	ticket Ticket
	result weather.FetchResult
}

// Deps bundles the collaborators of a Controller.
type Deps struct {
	Service     *weather.Service
	Icons       *weather.IconCache
	Locator     weather.Locator
	Preferences PreferenceStore
	Reports     *store.ReportStore
	Logs        LogView
	Logger      *slog.Logger
	// Location is the timezone used for calendar days; nil means time.Local.
	Location *time.Location
}

// Controller is the single owner of preferences, status and the latest report.
type Controller struct {
	mu       sync.RWMutex
	saveMu   sync.Mutex // serializes writes to the preference store
	prefs    prefs.Preferences
	city     string
	status   Status
	inflight int
	applied  uint64

	service   *weather.Service
	icons     *weather.IconCache
	locator   weather.Locator
	store     PreferenceStore
	reports   *store.ReportStore
	logs      LogView
	refresher AutoRefresher
	logger    *slog.Logger
	loc       *time.Location
	now       func() time.Time

	seq      atomic.Uint64
	results  chan outcome
	done     chan struct{}
	doneOnce sync.Once
}

// New creates a Controller with preferences loaded from the store.
func New(d Deps) *Controller {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	reports := d.Reports
	if reports == nil {
		reports = store.NewReportStore()
	}

	p := d.Preferences.Load()
	return &Controller{
		prefs:   p,
		city:    p.LastCity,
		status:  Status{Message: "Ready", UpdatedAt: time.Now()},
		service: d.Service,
		icons:   d.Icons,
		locator: d.Locator,
		store:   d.Preferences,
		reports: reports,
		logs:    d.Logs,
		logger:  logger,
		loc:     loc,
		now:     time.Now,
		results: make(chan outcome, 8),
		done:    make(chan struct{}),
	}
}

// SetAutoRefresher attaches the auto-refresh scheduler.
func (c *Controller) SetAutoRefresher(r AutoRefresher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresher = r
}

// Startup applies the persisted auto-refresh settings and, when a credential is known,
// fetches the last city. Without a credential the status asks for one.
func (c *Controller) Startup() {
	c.mu.RLock()
	p := c.prefs.Clone()
	refresher := c.refresher
	c.mu.RUnlock()

	if refresher != nil {
		if _, err := refresher.Apply(p.AutoRefresh, p.RefreshInterval); err != nil {
			c.logger.Error("failed to schedule auto-refresh", "error", err)
		}
	}

	if p.APIKey == "" {
		c.setStatus(Status{
			Message:         "Please enter your API key in Settings",
			NeedsCredential: true,
		})
		return
	}
	if p.LastCity != "" {
		if _, err := c.Search(p.LastCity); err != nil {
			c.logger.Warn("startup fetch not started", "city", p.LastCity, "error", err)
		}
	}
}

// Run applies fetch results until ctx is cancelled. It is the only place where fetch
// results change the application state.
func (c *Controller) Run(ctx context.Context) error {
	defer c.doneOnce.Do(func() { close(c.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case o := <-c.results:
			c.apply(o)
		}
	}
}

// Search validates city, records it in the history and starts a background fetch.
// Validation and missing-credential errors are returned synchronously and no request is made.
func (c *Controller) Search(city string) (Ticket, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		err := fmt.Errorf("%w: please enter a city name", weather.ErrValidation)
		c.fail(err)
		return Ticket{}, err
	}

	c.mu.Lock()
	changed := c.prefs.AddSearch(city)
	c.city = city
	q := weather.Query{City: city, Units: c.prefs.Units, APIKey: c.prefs.APIKey}
	c.mu.Unlock()

	if changed {
		_ = c.persist()
	}

	return c.fetch(q)
}

// Refresh re-fetches the current city.
func (c *Controller) Refresh() (Ticket, error) {
	c.mu.RLock()
	q := weather.Query{City: c.city, Units: c.prefs.Units, APIKey: c.prefs.APIKey}
	c.mu.RUnlock()

	if q.City == "" {
		err := fmt.Errorf("%w: no city selected", weather.ErrValidation)
		return Ticket{}, err
	}
	return c.fetch(q)
}

// AutoRefresh is invoked by the scheduler on every tick.
func (c *Controller) AutoRefresh() {
	if _, err := c.Refresh(); err != nil {
		c.logger.Debug("auto-refresh skipped", "error", err)
	}
}

func (c *Controller) fetch(q weather.Query) (Ticket, error) {
	if err := c.service.Validate(q); err != nil {
		c.fail(err)
		return Ticket{}, err
	}

	t := Ticket{
		ID:    uuid.NewString(),
		Seq:   c.seq.Add(1),
		City:  q.City,
		Units: q.Units,
	}

	c.mu.Lock()
	c.inflight++
	c.status = Status{
		Message:   fmt.Sprintf("Fetching weather data for %s...", q.City),
		Fetching:  true,
		UpdatedAt: c.now(),
	}
	c.mu.Unlock()

	c.logger.Info("fetch started", "ticket", t.ID, "city", q.City, "units", q.Units)

	future := c.service.FetchAsync(q)
	go func() {
		res := <-future
		select {
		case c.results <- outcome{ticket: t, result: res}:
		case <-c.done:
		}
	}()

	return t, nil
}

func (c *Controller) apply(o outcome) {
	t, res := o.ticket, o.result

	c.mu.Lock()
	c.inflight--
	fetching := c.inflight > 0

	// results of fetches requested before the last applied one are dropped
	if t.Seq < c.applied {
		c.status.Fetching = fetching
		c.mu.Unlock()
		metrics.RecordFetch("stale")
		c.logger.Info("discarding stale fetch result", "ticket", t.ID, "city", t.City)
		return
	}
	c.applied = t.Seq

	if res.Err != nil {
		c.status = errorStatus(res.Err, c.now())
		c.status.Fetching = fetching
		c.mu.Unlock()
		metrics.RecordFetch("error")
		c.logger.Error("API request error", "ticket", t.ID, "city", t.City, "kind", weather.ErrorKind(res.Err), "error", res.Err)
		return
	}

	c.reports.Save(res.Report)
	c.prefs.LastCity = t.City
	c.status = Status{
		Message:   fmt.Sprintf("Weather data for %s updated at %s", t.City, c.now().Format("15:04:05")),
		Fetching:  fetching,
		UpdatedAt: c.now(),
	}
	c.mu.Unlock()

	metrics.RecordFetch("ok")
	c.logger.Info("weather updated", "ticket", t.ID, "city", t.City, "location", res.Report.Current.Location(), "shared", res.Shared)
	_ = c.persist()
}

// Status returns the current status line.
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// CurrentCity returns the city of the last search.
func (c *Controller) CurrentCity() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.city
}

// Location returns the timezone used for calendar days and exported dates.
func (c *Controller) Location() *time.Location {
	return c.loc
}

func errorStatus(err error, now time.Time) Status {
	return Status{
		Message:         "Error: " + err.Error(),
		Error:           err.Error(),
		ErrorKind:       weather.ErrorKind(err),
		NeedsCredential: weather.NeedsCredential(err),
		UpdatedAt:       now,
	}
}

// fail records err in the status line and the log.
func (c *Controller) fail(err error) {
	c.mu.Lock()
	st := errorStatus(err, c.now())
	st.Fetching = c.inflight > 0
	if errors.Is(err, weather.ErrCredentialRequired) {
		st.Message = "Please enter your API key in Settings"
	}
	c.status = st
	c.mu.Unlock()

	c.logger.Error("request rejected", "kind", weather.ErrorKind(err), "error", err)
}

func (c *Controller) setStatus(st Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st.UpdatedAt = c.now()
	st.Fetching = c.inflight > 0
	c.status = st
}

// persist writes the current preferences. Saves are serialized and each one takes its
// snapshot under saveMu, so the last write always carries the latest in-memory record.
// A failed save is reported in the status line.
func (c *Controller) persist() error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.RLock()
	snapshot := c.prefs.Clone()
	c.mu.RUnlock()

	if err := c.store.Save(snapshot); err != nil {
		err = fmt.Errorf("could not save configuration: %w", err)
		c.mu.Lock()
		st := errorStatus(err, c.now())
		st.Fetching = c.inflight > 0
		c.status = st
		c.mu.Unlock()
		c.logger.Error("could not save configuration", "error", err)
		return err
	}
	return nil
}
