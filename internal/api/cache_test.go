package api

import (
	"strconv"
	"testing"
	"time"
)

func TestResultCachePutGet(t *testing.T) {
	c := NewResultCache(300 * time.Second)
	if got := c.Get("k"); got != nil {
		t.Errorf("expected miss, got %v", got)
	}
	c.Put("k", "v")
	if got := c.Get("k"); got != "v" {
		t.Errorf("expected v, got %v", got)
	}
}

func TestResultCacheExpiry(t *testing.T) {
	c := NewResultCache(300 * time.Second)
	base := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	c.Put("k", "v")
	now = base.Add(299 * time.Second)
	if got := c.Get("k"); got != "v" {
		t.Errorf("expected hit before TTL, got %v", got)
	}
	now = base.Add(301 * time.Second)
	if got := c.Get("k"); got != nil {
		t.Errorf("expected expiry after TTL, got %v", got)
	}
}

func TestResultCacheInvalidate(t *testing.T) {
	c := NewResultCache(300 * time.Second)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Invalidate()
	if c.Get("a") != nil || c.Get("b") != nil {
		t.Error("expected all entries dropped")
	}
}

func TestResultCacheBounded(t *testing.T) {
	c := NewResultCache(300 * time.Second)
	base := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	c.Put("oldest", 0)
	now = base.Add(time.Second)
	for i := 1; i < maxCacheEntries; i++ {
		c.Put("k"+strconv.Itoa(i), i)
	}
	c.Put("overflow", 1)

	if len(c.entries) > maxCacheEntries {
		t.Errorf("cache grew past bound: %d entries", len(c.entries))
	}
	if c.Get("oldest") != nil {
		t.Error("expected the soonest-expiring entry to be evicted")
	}
	if c.Get("overflow") == nil {
		t.Error("expected the new entry to be stored")
	}
}

func TestResultCacheDisabled(t *testing.T) {
	c := NewResultCache(0)
	c.Put("k", "v")
	if got := c.Get("k"); got != nil {
		t.Errorf("expected zero-TTL cache to never store, got %v", got)
	}
}

func TestTTLFromEnv(t *testing.T) {
	t.Setenv("SCORECARD_CACHE_TTL", "42")
	if got := ttlFromEnv("SCORECARD_CACHE_TTL", defaultScorecardTTL); got != 42*time.Second {
		t.Errorf("expected 42s, got %v", got)
	}
	t.Setenv("SCORECARD_CACHE_TTL", "bogus")
	if got := ttlFromEnv("SCORECARD_CACHE_TTL", defaultScorecardTTL); got != defaultScorecardTTL {
		t.Errorf("expected fallback, got %v", got)
	}
}
