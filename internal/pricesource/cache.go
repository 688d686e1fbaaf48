package pricesource

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Cache memoises the latest snapshot with a time-to-live. Failed fetches are
// cached too, so a broken source is retried at most once per TTL window
// instead of on every caller.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	logger  zerolog.Logger
	now     func() time.Time

	mu       sync.Mutex
	current  *Snapshot
	previous *Snapshot
}

// NewCache constructs a snapshot cache around a fetcher.
func NewCache(fetcher Fetcher, ttl time.Duration, logger zerolog.Logger) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		logger:  logger.With().Str("component", "price_cache").Logger(),
		now:     time.Now,
	}
}

// Get returns the current snapshot, refreshing it when stale or forced. The
// refresh happens under the cache lock, so concurrent callers during a miss
// coalesce into a single fetch and the rest are served the fresh result.
func (c *Cache) Get(ctx context.Context, forceRefresh bool) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !forceRefresh && c.current != nil && c.now().Sub(c.current.FetchedAt) < c.ttl {
		return *c.current
	}

	snap := c.refresh(ctx)
	c.previous = c.current
	c.current = &snap
	return snap
}

// Previous returns the snapshot displaced by the most recent refresh, used
// for percent-change deltas. Nil until at least two refreshes happened.
func (c *Cache) Previous() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.previous == nil {
		return nil
	}
	snap := *c.previous
	return &snap
}

// Current returns the cached snapshot without triggering a refresh.
func (c *Cache) Current() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	snap := *c.current
	return &snap
}

func (c *Cache) refresh(ctx context.Context) Snapshot {
	fetchedAt := c.now()

	raw, err := c.fetcher.Fetch(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("price fetch failed")
		return newFailedSnapshot(err.Error(), fetchedAt)
	}

	if raw.Empty() {
		c.logger.Warn().Msg("price page parsed but no fields recognised")
		return newFailedSnapshot("source page structure unrecognized", fetchedAt)
	}

	snap := newSnapshot(raw, fetchedAt)
	c.logger.Debug().
		Str("price", snap.PriceText).
		Str("market_cap", snap.MarketCap).
		Msg("snapshot refreshed")
	return snap
}
