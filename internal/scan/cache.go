package scan

import (
	"sync"
	"time"

	"mintshield/internal/domain"
)

// Default result-cache TTLs. Instant scans go stale fast because launch
// state moves slot to slot; deep scans are expensive enough to hold longer.
const (
	DefaultInstantTTL = 30 * time.Second
	DefaultDeepTTL    = 60 * time.Second

	cacheSweepInterval = time.Minute
)

type cacheEntry struct {
	resp      *domain.ScanResponse
	expiresAt time.Time
}

// resultCache absorbs duplicate near-simultaneous scans of the same mint.
// Writers race benignly: last writer wins, TTL bounds staleness.
type resultCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry

	instantTTL time.Duration
	deepTTL    time.Duration
	now        func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

func newResultCache(instantTTL, deepTTL time.Duration, now func() time.Time) *resultCache {
	if instantTTL <= 0 {
		instantTTL = DefaultInstantTTL
	}
	if deepTTL <= 0 {
		deepTTL = DefaultDeepTTL
	}
	if now == nil {
		now = time.Now
	}
	return &resultCache{
		entries:    make(map[string]cacheEntry),
		instantTTL: instantTTL,
		deepTTL:    deepTTL,
		now:        now,
		stopCh:     make(chan struct{}),
	}
}

func cacheKey(mint string, mode domain.ScanMode) string {
	return mint + "|" + string(mode)
}

// Get returns the cached response for (mint, mode), or nil when absent or
// expired.
func (c *resultCache) Get(mint string, mode domain.ScanMode) *domain.ScanResponse {
	c.mu.RLock()
	entry, ok := c.entries[cacheKey(mint, mode)]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.expiresAt) {
		return nil
	}
	return entry.resp
}

// Put caches a response under its mint and mode.
func (c *resultCache) Put(resp *domain.ScanResponse) {
	ttl := c.deepTTL
	if resp.Mode == domain.ModeInstant {
		ttl = c.instantTTL
	}

	c.mu.Lock()
	c.entries[cacheKey(resp.Mint, resp.Mode)] = cacheEntry{
		resp:      resp,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

// Start launches the background eviction sweep.
func (c *resultCache) Start() {
	go func() {
		ticker := time.NewTicker(cacheSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.evictExpired()
			case <-c.stopCh:
				return
			}
		}
	}()
}

// Stop halts the eviction sweep. Safe to call more than once.
func (c *resultCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

func (c *resultCache) evictExpired() {
	now := c.now()
	c.mu.Lock()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}
