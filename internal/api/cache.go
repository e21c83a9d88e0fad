package api

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// Default TTLs for cached read results.
const (
	defaultScorecardTTL = 300 * time.Second
	defaultRollupTTL    = 900 * time.Second
)

// maxCacheEntries bounds a cache; the entry closest to expiry is evicted
// when the bound is hit.
const maxCacheEntries = 256

// ResultCache is a thread-safe TTL cache for computed read results.
type ResultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	value   any
	expires time.Time
}

// NewResultCache creates a cache whose entries expire after ttl.
// If ttl <= 0, caching is disabled and Get always misses.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		ttl:     ttl,
		entries: make(map[string]*cacheEntry),
		now:     time.Now,
	}
}

// NewScorecardCacheFromEnv creates the scorecard cache with TTL from the
// SCORECARD_CACHE_TTL env var (seconds).
func NewScorecardCacheFromEnv() *ResultCache {
	return NewResultCache(ttlFromEnv("SCORECARD_CACHE_TTL", defaultScorecardTTL))
}

// NewRollupCacheFromEnv creates the rollup cache with TTL from the
// ROLLUP_CACHE_TTL env var (seconds).
func NewRollupCacheFromEnv() *ResultCache {
	return NewResultCache(ttlFromEnv("ROLLUP_CACHE_TTL", defaultRollupTTL))
}

func ttlFromEnv(name string, fallback time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return time.Duration(parsed) * time.Second
		}
	}
	return fallback
}

// Get retrieves a live value from the cache, or nil if absent or expired.
func (c *ResultCache) Get(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.now().After(entry.expires) {
		delete(c.entries, key)
		return nil
	}
	return entry.value
}

// Put stores a value under the key with the cache's TTL.
func (c *ResultCache) Put(key string, value any) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= maxCacheEntries {
		c.evictSoonest()
	}
	c.entries[key] = &cacheEntry{value: value, expires: c.now().Add(c.ttl)}
}

// evictSoonest removes the entry closest to expiry. Caller holds the lock.
func (c *ResultCache) evictSoonest() {
	var victim string
	var soonest time.Time
	for key, entry := range c.entries {
		if victim == "" || entry.expires.Before(soonest) {
			victim = key
			soonest = entry.expires
		}
	}
	if victim != "" {
		delete(c.entries, victim)
	}
}

// Invalidate drops all entries. Called after writes that change scores.
func (c *ResultCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}
