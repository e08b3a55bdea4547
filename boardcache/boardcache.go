// Package boardcache provides a time-bucketed cache of converted departure
// and arrival boards, so repeated plan requests against the same station
// and rough time window don't re-fetch the upstream feed.
package boardcache

import (
	"time"

	"github.com/bluele/gcache"

	"github.com/onwardrail/core/domain"
	"github.com/onwardrail/core/station"
)

// Side distinguishes a departures board from an arrivals board: different
// upstream responses, so part of the cache key.
type Side int

const (
	// Departures is a station's departure board.
	Departures Side = iota
	// Arrivals is a station's arrival board.
	Arrivals
)

// Key identifies one cached board. Two lookups with different window sizes
// are genuinely different upstream responses and must not share an entry.
type Key struct {
	Station       station.Code
	Date          time.Time
	Bucket        int
	WindowMinutes int
	Side          Side
}

// Config configures the cache's time-to-live, maximum entry capacity, and
// the width of the time bucket used to group nearby lookups onto the same
// key.
type Config struct {
	TTL           time.Duration
	MaxCapacity   int
	BucketMinutes int
}

// DefaultConfig matches the typical defaults: 60s TTL, 1000 entries, 10
// minute buckets.
func DefaultConfig() Config {
	return Config{
		TTL:           60 * time.Second,
		MaxCapacity:   1000,
		BucketMinutes: 10,
	}
}

// Cache is an LRU, TTL-bounded store of converted boards. It never performs
// negative caching: an upstream error is never stored, only successful
// results. Concurrent lookups for the same key may race and both trigger an
// upstream fetch; the cache only guarantees eventual convergence, not
// serialization of in-flight fetches.
type Cache struct {
	gc            gcache.Cache
	bucketMinutes int
}

// New builds a Cache from cfg.
func New(cfg Config) *Cache {
	bucketMinutes := cfg.BucketMinutes
	if bucketMinutes <= 0 {
		bucketMinutes = 10
	}
	return &Cache{
		gc: gcache.New(cfg.MaxCapacity).
			LRU().
			Expiration(cfg.TTL).
			Build(),
		bucketMinutes: bucketMinutes,
	}
}

// MakeKey builds the cache key for a lookup at the given station, clock
// time, window size and side. The bucket is minutes-from-midnight
// integer-divided by the configured bucket width.
func (c *Cache) MakeKey(code station.Code, at time.Time, windowMinutes int, side Side) Key {
	minutesFromMidnight := at.Hour()*60 + at.Minute()
	bucket := minutesFromMidnight / c.bucketMinutes
	y, m, d := at.Date()
	return Key{
		Station:       code,
		Date:          time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Bucket:        bucket,
		WindowMinutes: windowMinutes,
		Side:          side,
	}
}

// Get returns the cached services for key, if present and unexpired.
func (c *Cache) Get(key Key) ([]*domain.Service, bool) {
	v, err := c.gc.Get(key)
	if err != nil {
		return nil, false
	}
	services, ok := v.([]*domain.Service)
	return services, ok
}

// Set stores services under key, subject to the cache's configured TTL.
func (c *Cache) Set(key Key, services []*domain.Service) {
	_ = c.gc.Set(key, services)
}

// Len returns the number of entries currently cached, not counting entries
// past their TTL.
func (c *Cache) Len() int {
	return c.gc.Len(true)
}
