package job

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cachedResult is one stored result.
type cachedResult struct {
	// result is the stored run outcome.
	result *Result

	// built is when the run finished.
	built time.Time

	// ttl is the time-to-live of the entry.
	ttl time.Duration
}

// IsExpired returns true if the entry has outlived its TTL.
func (c *cachedResult) IsExpired() bool {
	if c.ttl == 0 {
		return true // No caching
	}
	return time.Since(c.built) > c.ttl
}

// resultCache holds the latest result and deduplicates concurrent runs.
type resultCache struct {
	mu    sync.RWMutex
	entry *cachedResult
	ttl   time.Duration
	sf    singleflight.Group
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{ttl: ttl}
}

// get returns the cached result or builds a new one. Concurrent builds share
// one call. The boolean reports a cache hit.
func (c *resultCache) get(ctx context.Context, refresh bool, build func(context.Context) (*Result, error)) (*Result, bool, error) {
	if !refresh {
		c.mu.RLock()
		entry := c.entry
		c.mu.RUnlock()
		if entry != nil && !entry.IsExpired() {
			return entry.result, true, nil
		}
	}

	v, err, _ := c.sf.Do("compare", func() (any, error) {
		result, err := build(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entry = &cachedResult{result: result, built: time.Now(), ttl: c.ttl}
		c.mu.Unlock()
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*Result), false, nil
}

// invalidate drops the cached result.
func (c *resultCache) invalidate() {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
}
