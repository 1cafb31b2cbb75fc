// Package cache keeps a time-bounded snapshot of each inventory collection
// and refreshes it from the service when it goes stale.
package cache

import (
	"context"
	"time"

	"github.com/crmarques/srvinv/config"
	"github.com/crmarques/srvinv/debugctx"
	"github.com/crmarques/srvinv/inventory"
	"github.com/crmarques/srvinv/telemetry"
	"github.com/crmarques/srvinv/translator"
	"github.com/crmarques/srvinv/transport"
)

// Cache decides per collection whether the stored snapshot can be served or
// must be refreshed. It holds no lock: concurrent refreshes of the same
// collection each fetch and the last write wins.
type Cache struct {
	transport transport.Transport
	store     Store
	duration  time.Duration
	now       func() time.Time
	metrics   *telemetry.Metrics
}

type Option func(*Cache)

// WithDuration sets how long a refreshed snapshot stays fresh.
func WithDuration(duration time.Duration) Option {
	return func(c *Cache) {
		if duration > 0 {
			c.duration = duration
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(c *Cache) { c.metrics = metrics }
}

func New(transport transport.Transport, store Store, opts ...Option) *Cache {
	cache := &Cache{
		transport: transport,
		store:     store,
		duration:  config.DefaultCacheDuration * time.Second,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cache)
	}
	return cache
}

// Get returns the snapshot of collection, refreshing it first when
// forceRefresh is set, when nothing is stored yet, or when the stored entry
// is at or past its deadline. Short and plural collection names share one
// entry. ok is false when a needed refresh failed; a
// stale snapshot is never served in that case and the store is left as is.
func (c *Cache) Get(ctx context.Context, collection string, forceRefresh bool) (inventory.Snapshot, bool) {
	collection = inventory.Singular(collection)
	logger := debugctx.Logger(ctx).WithValues("collection", collection)

	if !forceRefresh {
		entry, found, err := c.store.Load(ctx, collection)
		if err != nil {
			logger.V(debugctx.LevelWarn).Info("cache entry unreadable, refreshing", "error", err.Error())
			found = false
		}
		if found && c.now().Before(entry.RefreshedAt.Add(c.duration)) {
			logger.V(debugctx.LevelCache).Info("cache hit", "refreshed_at", entry.RefreshedAt)
			c.metrics.ObserveCacheLookup(collection, telemetry.OutcomeHit)
			return entry.Snapshot, true
		}
	}

	return c.refresh(ctx, collection)
}

// Refresh fetches collection unconditionally.
func (c *Cache) Refresh(ctx context.Context, collection string) (inventory.Snapshot, bool) {
	return c.Get(ctx, collection, true)
}

func (c *Cache) refresh(ctx context.Context, collection string) (inventory.Snapshot, bool) {
	logger := debugctx.Logger(ctx).WithValues("collection", collection)

	response := c.transport.Do(ctx, transport.List(collection))
	code, snapshot := translator.FetchSnapshot(response)
	if !code.OK() {
		logger.V(debugctx.LevelCache).Info("cache refresh failed", "status", response.Status, "code", int(code))
		c.metrics.ObserveCacheLookup(collection, telemetry.OutcomeRefreshFailed)
		return nil, false
	}

	entry := Entry{Snapshot: snapshot, RefreshedAt: c.now()}
	if err := c.store.Save(ctx, collection, entry); err != nil {
		logger.V(debugctx.LevelWarn).Info("cache store write failed", "error", err.Error())
		c.metrics.ObserveStoreFailure(collection)
	}

	logger.V(debugctx.LevelCache).Info("cache refreshed", "objects", len(snapshot))
	c.metrics.ObserveCacheLookup(collection, telemetry.OutcomeRefresh)
	return snapshot, true
}
