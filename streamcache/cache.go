// Package streamcache maps opaque stream ids to pending request contexts
// with expiration.
package streamcache

import (
	"context"
	"sync"
	"time"

	"github.com/goudachat/chatrelay/domain"
)

type entry struct {
	ctx      domain.StreamContext
	deadline time.Time
}

// Cache is an expiring map from stream id to StreamContext. Entries use a
// fixed TTL from Put; entries past their deadline are absent. Safe for
// concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache whose entries expire ttl after Put.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores the context under streamID, resetting its deadline.
func (c *Cache) Put(streamID string, streamCtx domain.StreamContext) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[streamID] = entry{ctx: streamCtx, deadline: c.now().Add(c.ttl)}
}

// TryGet returns the context for streamID if it exists and has not
// expired. Expired entries are removed on the spot.
func (c *Cache) TryGet(streamID string) (domain.StreamContext, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[streamID]
	if !ok {
		return domain.StreamContext{}, false
	}
	if c.now().After(e.deadline) {
		delete(c.entries, streamID)
		return domain.StreamContext{}, false
	}
	return e.ctx, true
}

// Delete removes streamID. Redeemed tokens are deleted by the handshake
// so a stream id cannot re-run the same prompt.
func (c *Cache) Delete(streamID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, streamID)
}

// SweepExpired removes all entries past their deadline and reports how
// many were dropped.
func (c *Cache) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for id, e := range c.entries {
		if now.After(e.deadline) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired entries periodically until ctx is cancelled. Sweeping
// is housekeeping only; TryGet never returns an expired entry either way.
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.SweepExpired()
		}
	}
}

// Len returns the number of live (unswept) entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
