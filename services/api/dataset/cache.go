package dataset

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

var cacheLog = logrus.WithField("prefix", "cache")

// FetchFunc loads a frame for a cache key.
type FetchFunc func(ctx context.Context) (Frame, error)

// CacheInfo describes one cached entry.
type CacheInfo struct {
	Key       string    `json:"key"`
	FetchedAt time.Time `json:"fetched_at"`
	Rows      int       `json:"rows"`
	Expired   bool      `json:"expired"`
}

type cacheEntry struct {
	frame     Frame
	fetchedAt time.Time
}

// DefaultFetchTimeout bounds a shared fetch once no caller is waiting on it.
const DefaultFetchTimeout = time.Minute

// Cache memoizes remote frames by source key. Concurrent loads of the same
// key share one fetch. A zero TTL keeps entries until they are invalidated
// or refreshed.
type Cache struct {
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
	group        singleflight.Group

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCache builds an empty cache.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:          ttl,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
		entries:      make(map[string]cacheEntry),
	}
}

// Get returns the cached frame for key, calling fetch when the key is absent
// or expired. Failed fetches are not cached.
func (c *Cache) Get(ctx context.Context, key string, fetch FetchFunc) (Frame, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && !c.expired(e) {
		return e.frame, nil
	}
	return c.load(ctx, key, fetch)
}

// Refresh fetches key again regardless of its age. The cached entry is
// replaced only when the fetch succeeds.
func (c *Cache) Refresh(ctx context.Context, key string, fetch FetchFunc) (Frame, error) {
	c.group.Forget(key)
	return c.load(ctx, key, fetch)
}

// Invalidate drops key. The next Get fetches it again.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	c.group.Forget(key)
}

// Keys lists the cached keys in ascending order.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries describes every cached key, ordered by key.
func (c *Cache) Entries() []CacheInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]CacheInfo, 0, len(c.entries))
	for k, e := range c.entries {
		out = append(out, CacheInfo{
			Key:       k,
			FetchedAt: e.fetchedAt,
			Rows:      len(e.frame.Rows),
			Expired:   c.expired(e),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (c *Cache) load(ctx context.Context, key string, fetch FetchFunc) (Frame, error) {
	// The shared fetch outlives any one caller; each caller still stops
	// waiting when its own context ends.
	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		f, err := fetch(fctx)
		if err != nil {
			return Frame{}, err
		}
		c.mu.Lock()
		c.entries[key] = cacheEntry{frame: f, fetchedAt: c.now()}
		c.mu.Unlock()
		cacheLog.WithFields(logrus.Fields{"source": key, "rows": len(f.Rows)}).Info("cached remote source")
		return f, nil
	})

	select {
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			cacheLog.WithField("source", key).Debug("joined in-flight fetch")
		}
		if res.Err != nil {
			return Frame{}, res.Err
		}
		return res.Val.(Frame), nil
	}
}

func (c *Cache) expired(e cacheEntry) bool {
	return c.ttl > 0 && c.now().Sub(e.fetchedAt) >= c.ttl
}
