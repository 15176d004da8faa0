package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/i474232898/weatherdesk/internal/prefs"
	"github.com/i474232898/weatherdesk/internal/weather"
)

// Preferences returns a copy of the current preferences.
func (c *Controller) Preferences() prefs.Preferences {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prefs.Clone()
}

// Palette returns the active theme's colours including overrides.
func (c *Controller) Palette() (prefs.Theme, map[string]string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prefs.Theme, c.prefs.Palette(c.prefs.Theme)
}

// mutate applies fn to the preferences and persists the result. fn's error aborts the
// change without touching the stored record.
func (c *Controller) mutate(fn func(p *prefs.Preferences) error) (prefs.Preferences, error) {
	c.mu.Lock()
	next := c.prefs.Clone()
	if err := fn(&next); err != nil {
		c.mu.Unlock()
		c.logger.Warn("preference change rejected", "error", err)
		return prefs.Preferences{}, err
	}
	c.prefs = next
	snapshot := next.Clone()
	c.mu.Unlock()

	return snapshot, c.persist()
}

// SetCredential stores the API key.
func (c *Controller) SetCredential(key string) error {
	if _, err := c.mutate(func(p *prefs.Preferences) error { return p.SetCredential(key) }); err != nil {
		return err
	}
	c.setStatus(Status{Message: "API key saved successfully"})
	c.logger.Info("api key updated")
	return nil
}

// TestCredential checks key against the provider and stores it when it is accepted.
func (c *Controller) TestCredential(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		err := fmt.Errorf("%w: please enter an API key", weather.ErrValidation)
		c.fail(err)
		return err
	}

	c.setStatus(Status{Message: "Testing API key..."})
	units := c.Preferences().Units
	if err := c.service.VerifyCredential(ctx, key, units); err != nil {
		c.mu.Lock()
		c.status = errorStatus(err, c.now())
		c.status.Message = "API key test failed: " + err.Error()
		c.mu.Unlock()
		c.logger.Error("api key test failed", "kind", weather.ErrorKind(err), "error", err)
		return err
	}

	if err := c.SetCredential(key); err != nil {
		return err
	}
	c.setStatus(Status{Message: "API key verified successfully"})
	return nil
}

// SetUnits switches the unit system and re-fetches the current city so that the shown
// report always matches the selected units.
func (c *Controller) SetUnits(u weather.Units) error {
	p, err := c.mutate(func(p *prefs.Preferences) error { return p.SetUnits(u) })
	if err != nil {
		return err
	}
	if c.CurrentCity() != "" && p.APIKey != "" {
		if _, err := c.Refresh(); err != nil {
			return err
		}
	}
	return nil
}

// SetTheme switches the theme.
func (c *Controller) SetTheme(t prefs.Theme) error {
	_, err := c.mutate(func(p *prefs.Preferences) error { return p.SetTheme(t) })
	return err
}

// SetColor overrides one colour of a theme.
func (c *Controller) SetColor(theme prefs.Theme, element, hex string) error {
	_, err := c.mutate(func(p *prefs.Preferences) error { return p.SetColor(theme, element, hex) })
	return err
}

// ResetColors removes all colour overrides.
func (c *Controller) ResetColors() error {
	_, err := c.mutate(func(p *prefs.Preferences) error {
		p.ResetColors()
		return nil
	})
	return err
}

// ToggleFavorite adds or removes city (the current city when empty) and reports whether
// it is now a favorite.
func (c *Controller) ToggleFavorite(city string) (bool, error) {
	if strings.TrimSpace(city) == "" {
		city = c.CurrentCity()
	}
	var added bool
	_, err := c.mutate(func(p *prefs.Preferences) error {
		var err error
		added, err = p.ToggleFavorite(city)
		return err
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// ClearHistory empties the search history.
func (c *Controller) ClearHistory() error {
	_, err := c.mutate(func(p *prefs.Preferences) error {
		p.ClearHistory()
		return nil
	})
	return err
}

// SetAutoRefresh enables or disables auto-refresh. interval is the text the user typed;
// it must be numeric and is clamped to the minimum. When disabling, an empty interval keeps
// the stored value. The applied interval is returned.
func (c *Controller) SetAutoRefresh(enabled bool, interval string) (int, error) {
	minutes := c.Preferences().RefreshInterval
	if enabled || strings.TrimSpace(interval) != "" {
		n, err := prefs.ParseInterval(interval)
		if err != nil {
			c.fail(err)
			return 0, err
		}
		minutes = n
	}

	p, err := c.mutate(func(p *prefs.Preferences) error {
		p.SetRefresh(enabled, minutes)
		return nil
	})
	if err != nil {
		return 0, err
	}

	c.mu.RLock()
	refresher := c.refresher
	c.mu.RUnlock()
	if refresher != nil {
		if _, err := refresher.Apply(p.AutoRefresh, p.RefreshInterval); err != nil {
			c.logger.Error("failed to schedule auto-refresh", "error", err)
			return p.RefreshInterval, err
		}
	}
	return p.RefreshInterval, nil
}

// DetectLocation resolves the user's city from their IP address and searches for it.
func (c *Controller) DetectLocation(ctx context.Context) (weather.Place, Ticket, error) {
	if c.locator == nil {
		return weather.Place{}, Ticket{}, fmt.Errorf("location detection is not configured")
	}

	c.setStatus(Status{Message: "Detecting location..."})
	place, err := c.locator.Locate(ctx)
	if err != nil {
		c.mu.Lock()
		c.status = errorStatus(err, c.now())
		c.mu.Unlock()
		c.logger.Error("error detecting location", "error", err)
		return weather.Place{}, Ticket{}, err
	}

	t, err := c.Search(place.City)
	return place, t, err
}
