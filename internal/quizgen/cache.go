package quizgen

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
)

// Cache stores generated item lists by fingerprint. Implementations treat
// every failure as a miss; generation never fails because of the cache.
type Cache interface {
	Get(ctx context.Context, key string) ([]Item, bool)
	Put(ctx context.Context, key string, items []Item)
}

// Fingerprint derives the cache key for a generation run from the selected
// snippets and the knobs that change the output.
func Fingerprint(snippets []string, model string, n int, mode Mode) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s|%s|%d|%s", strings.Join(snippets, "\n"), model, n, mode)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// MemoryCache is an unbounded in-process Cache. It is safe for concurrent
// use and lives as long as the process.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]Item
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]Item)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return cloneItems(items), true
}

func (c *MemoryCache) Put(_ context.Context, key string, items []Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cloneItems(items)
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Scoped returns a view of c whose keys are prefixed with ns. Callers use
// it to keep one client's entries apart from another's. An empty ns
// returns c itself.
func Scoped(c Cache, ns string) Cache {
	if ns == "" {
		return c
	}
	return &scopedCache{inner: c, prefix: ns + ":"}
}

type scopedCache struct {
	inner  Cache
	prefix string
}

func (s *scopedCache) Get(ctx context.Context, key string) ([]Item, bool) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scopedCache) Put(ctx context.Context, key string, items []Item) {
	s.inner.Put(ctx, s.prefix+key, items)
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		it.Options = append([]string(nil), it.Options...)
		out[i] = it
	}
	return out
}
