package awc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/flight-weather-risk/internal/domain"
	"github.com/couchcryptid/flight-weather-risk/internal/observability"
)

// Cache stores fetched weather by request key. Implementations must be safe
// for concurrent use.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}

// MemoryCache is a process-local Cache. Entries expire on read; there is no
// eviction beyond the TTL.
type MemoryCache struct {
	clock   clockwork.Clock
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value   any
	expires time.Time
}

// NewMemoryCache creates an empty cache. Pass nil to use the real clock.
func NewMemoryCache(clock clockwork.Clock) *MemoryCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryCache{clock: clock, entries: make(map[string]cacheEntry)}
}

func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.clock.Now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *MemoryCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expires: c.clock.Now().Add(ttl)}
}

// Len reports the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CachedSource wraps a WeatherSource with a TTL cache. Concurrent misses on
// the same key share one upstream request. Errors are never cached.
type CachedSource struct {
	inner      domain.WeatherSource
	cache      Cache
	group      singleflight.Group
	weatherTTL time.Duration
	hazardTTL  time.Duration
	metrics    *observability.Metrics
}

// NewCachedSource creates a cache decorator. weatherTTL applies to METAR,
// TAF, PIREP and airport lookups; hazardTTL to the advisory list.
func NewCachedSource(inner domain.WeatherSource, cache Cache, weatherTTL, hazardTTL time.Duration, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:      inner,
		cache:      cache,
		weatherTTL: weatherTTL,
		hazardTTL:  hazardTTL,
		metrics:    metrics,
	}
}

func (s *CachedSource) LatestMetars(ctx context.Context, icao string, hours int) ([]domain.Metar, error) {
	key := fmt.Sprintf("metar:%s;%d", icao, hours)
	return cached(ctx, s, "metar", key, s.weatherTTL, func(ctx context.Context) ([]domain.Metar, error) {
		return s.inner.LatestMetars(ctx, icao, hours)
	})
}

func (s *CachedSource) Taf(ctx context.Context, icao string) (*domain.Taf, error) {
	return cached(ctx, s, "taf", "taf:"+icao, s.weatherTTL, func(ctx context.Context) (*domain.Taf, error) {
		return s.inner.Taf(ctx, icao)
	})
}

func (s *CachedSource) Airport(ctx context.Context, icao string) (*domain.Airport, error) {
	return cached(ctx, s, "airport", "airport:"+icao, s.weatherTTL, func(ctx context.Context) (*domain.Airport, error) {
		return s.inner.Airport(ctx, icao)
	})
}

func (s *CachedSource) Hazards(ctx context.Context) ([]domain.HazardFeature, error) {
	return cached(ctx, s, "hazards", "hazards", s.hazardTTL, func(ctx context.Context) ([]domain.HazardFeature, error) {
		return s.inner.Hazards(ctx)
	})
}

func (s *CachedSource) PilotReports(ctx context.Context, icao string, radiusNM int) ([]domain.PilotReport, error) {
	key := fmt.Sprintf("pireps:%s;%d", icao, radiusNM)
	return cached(ctx, s, "pireps", key, s.weatherTTL, func(ctx context.Context) ([]domain.PilotReport, error) {
		return s.inner.PilotReports(ctx, icao, radiusNM)
	})
}

// cached serves key from the cache or runs fetch once for all concurrent
// callers. The shared fetch is detached from the first caller's
// cancellation; the client timeout still bounds it.
func cached[T any](ctx context.Context, s *CachedSource, source, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := s.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			s.metrics.WeatherCache.WithLabelValues(source, "hit").Inc()
			return typed, nil
		}
	}
	s.metrics.WeatherCache.WithLabelValues(source, "miss").Inc()

	v, err, _ := s.group.Do(key, func() (any, error) {
		result, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, result, ttl)
		return result, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
