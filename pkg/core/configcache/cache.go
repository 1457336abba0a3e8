package configcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
)

const (
	// DefaultTTL is how long a loaded value is served before the provider is asked again
	DefaultTTL = 30 * time.Second

	// DefaultProviderTimeout bounds every provider call
	DefaultProviderTimeout = 4 * time.Second
)

// Options configures a Cache. Zero values fall back to the defaults above.
type Options struct {
	TTL             time.Duration
	ProviderTimeout time.Duration
	Metrics         Metrics

	// Now is the clock used for TTL checks (defaults to time.Now)
	Now func() time.Time
}

// entry is a loaded value together with the invalidation generation it was loaded in
type entry struct {
	value      any
	loadedAt   time.Time
	generation uint64
}

type listener struct {
	id int
	fn func()
}

// Cache is a time-boxed, invalidation-aware cache of rule configuration.
//
// Reads never fail: when the provider errors or exceeds the timeout, the static
// default for that key is returned (and not cached, so the next read retries).
//
// Invalidate makes every entry stale immediately. A provider call that started
// before an invalidation still returns its value to its caller but is not stored,
// so a pending invalidation always wins over an in-flight read.
type Cache struct {
	provider Provider
	logger   *zap.Logger
	ttl      time.Duration
	timeout  time.Duration
	metrics  Metrics
	now      func() time.Time

	mu         sync.Mutex
	entries    map[Key]entry
	generation uint64
	listeners  []listener
	nextID     int
}

// New creates a cache in front of the given provider
func New(provider Provider, logger *zap.Logger, opts Options) *Cache {
	c := &Cache{
		provider: provider,
		logger:   logger,
		ttl:      opts.TTL,
		timeout:  opts.ProviderTimeout,
		metrics:  opts.Metrics,
		now:      opts.Now,
		entries:  make(map[Key]entry),
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultProviderTimeout
	}
	if c.metrics == nil {
		c.metrics = noopMetrics{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// StaffGroups returns the configured staff groups
func (c *Cache) StaffGroups(ctx context.Context) []model.StaffGroup {
	return get(ctx, c, KeyStaffGroups, c.provider.GetStaffGroups, DefaultStaffGroups)
}

// PriorityRules returns the configured priority rules
func (c *Cache) PriorityRules(ctx context.Context) []model.PriorityRule {
	return get(ctx, c, KeyPriorityRules, c.provider.GetPriorityRules, DefaultPriorityRules)
}

// DailyLimits returns the configured daily limits
func (c *Cache) DailyLimits(ctx context.Context) model.DailyLimits {
	fetch := func(ctx context.Context) (model.DailyLimits, error) {
		limits, err := c.provider.GetDailyLimits(ctx)
		if err != nil {
			return model.DailyLimits{}, err
		}
		if limits == nil {
			return model.DailyLimits{}, fmt.Errorf("provider returned no daily limits")
		}
		return *limits, nil
	}
	return get(ctx, c, KeyDailyLimits, fetch, DefaultDailyLimits)
}

// WeeklyLimits returns the configured rolling-week limits
func (c *Cache) WeeklyLimits(ctx context.Context) []model.WeeklyLimit {
	return get(ctx, c, KeyWeeklyLimits, c.provider.GetWeeklyLimits, DefaultWeeklyLimits)
}

// MonthlyLimits returns the limits for a calendar month
func (c *Cache) MonthlyLimits(ctx context.Context, year int, month time.Month) model.MonthlyLimits {
	fetch := func(ctx context.Context) (model.MonthlyLimits, error) {
		limits, err := c.provider.GetMonthlyLimits(ctx, year, month)
		if err != nil {
			return model.MonthlyLimits{}, err
		}
		if limits == nil {
			return model.MonthlyLimits{}, fmt.Errorf("provider returned no monthly limits for %04d-%02d", year, int(month))
		}
		return *limits, nil
	}
	fallback := func() model.MonthlyLimits {
		return DefaultMonthlyLimits(year, month)
	}
	return get(ctx, c, MonthlyKey(year, month), fetch, fallback)
}

// BackupAssignments returns the configured backup assignments
func (c *Cache) BackupAssignments(ctx context.Context) []model.BackupAssignment {
	return get(ctx, c, KeyBackupAssignments, c.provider.GetBackupAssignments, DefaultBackupAssignments)
}

// Snapshot loads every configuration key for a validation run starting in the given month
func (c *Cache) Snapshot(ctx context.Context, year int, month time.Month) model.RuleSet {
	return model.RuleSet{
		StaffGroups:       c.StaffGroups(ctx),
		PriorityRules:     c.PriorityRules(ctx),
		DailyLimits:       c.DailyLimits(ctx),
		WeeklyLimits:      c.WeeklyLimits(ctx),
		MonthlyLimits:     c.MonthlyLimits(ctx, year, month),
		BackupAssignments: c.BackupAssignments(ctx),
	}
}

// Invalidate marks every cached value stale and notifies listeners.
// Call it whenever the rule store reports a configuration write.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.generation++
	generation := c.generation
	listeners := make([]listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	c.metrics.CacheInvalidated()
	c.logger.Debug("Configuration cache invalidated", zap.Uint64("generation", generation))

	// Listeners run outside the lock so they may read from the cache
	for _, l := range listeners {
		l.fn()
	}
}

// OnInvalidated registers a callback run after every Invalidate.
// The returned function removes the callback; calling it more than once is harmless.
func (c *Cache) OnInvalidated(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, listener{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// get serves key from the cache or loads it through fetch, falling back on failure
func get[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error), fallback func() T) T {
	c.mu.Lock()
	generation := c.generation
	if e, ok := c.entries[key]; ok && e.generation == generation && c.now().Sub(e.loadedAt) < c.ttl {
		c.mu.Unlock()
		c.metrics.CacheHit(key)
		return e.value.(T)
	}
	c.mu.Unlock()

	c.metrics.CacheMiss(key)

	value, err := fetchWithTimeout(ctx, c.timeout, fetch)
	if err != nil {
		c.metrics.CacheFallback(key)
		if errors.Is(err, ErrNotConfigured) {
			c.logger.Debug("Configuration not stored, using defaults", zap.String("key", string(key)))
			return fallback()
		}
		c.logger.Warn("Failed to load configuration, using defaults",
			zap.String("key", string(key)),
			zap.Duration("timeout", c.timeout),
			zap.Error(err))
		return fallback()
	}

	c.mu.Lock()
	if c.generation == generation {
		c.entries[key] = entry{value: value, loadedAt: c.now(), generation: generation}
	} else {
		c.logger.Debug("Discarding configuration loaded before invalidation", zap.String("key", string(key)))
	}
	c.mu.Unlock()

	return value
}

// fetchWithTimeout races fetch against a timer. The provider call runs in its own
// goroutine so a provider that ignores ctx cannot block the caller.
func fetchWithTimeout[T any](ctx context.Context, timeout time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	resultChan := make(chan result, 1)

	go func() {
		value, err := fetch(ctx)
		resultChan <- result{value: value, err: err}
	}()

	select {
	case r := <-resultChan:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("provider did not respond within %v: %w", timeout, ctx.Err())
	}
}
