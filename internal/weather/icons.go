package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/i474232898/weatherdesk/internal/metrics"
)

// IconCache keeps provider icons in memory for the lifetime of the process.
type IconCache struct {
	provider Provider
	timeout  time.Duration
	items    *cache.Cache
}

// NewIconCache creates an IconCache; timeout bounds each icon download.
func NewIconCache(provider Provider, timeout time.Duration) *IconCache {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &IconCache{
		provider: provider,
		timeout:  timeout,
		// no expiration and no janitor: icons are never evicted
		items: cache.New(cache.NoExpiration, 0),
	}
}

// Get returns the icon image for code, downloading it on first use.
func (c *IconCache) Get(ctx context.Context, code string) ([]byte, error) {
	if err := validate.Var(code, "required,alphanum,max=8"); err != nil {
		return nil, fmt.Errorf("%w: icon code %q", ErrValidation, code)
	}

	if v, ok := c.items.Get(code); ok {
		metrics.RecordIconLookup(true)
		return v.([]byte), nil
	}
	metrics.RecordIconLookup(false)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	img, err := c.provider.Icon(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("icon %s: %w", code, err)
	}

	c.items.Set(code, img, cache.NoExpiration)
	return img, nil
}

// Len returns the number of cached icons.
func (c *IconCache) Len() int {
	return c.items.ItemCount()
}
