// Package pagecache keeps recently served public entries in memory. Entries
// of a kind are dropped whenever that kind changes.
package pagecache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/kado/internal/model"
)

// Cache stores entries per kind. Each kind carries a generation that
// Invalidate bumps; a Set carrying an older generation is dropped so a read
// that raced a write never repopulates stale data.
type Cache struct {
	mu   sync.Mutex
	lru  *expirable.LRU[string, model.Entry]
	gens map[string]uint64
}

// New returns nil when size or ttl is not positive; a nil *Cache is a valid
// always-miss cache.
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 || ttl <= 0 {
		return nil
	}
	return &Cache{
		lru:  expirable.NewLRU[string, model.Entry](size, nil, ttl),
		gens: make(map[string]uint64),
	}
}

func buildKey(kind, uri string) string {
	return kind + "|" + uri
}

func (c *Cache) Get(kind, uri string) (*model.Entry, bool) {
	if c == nil {
		return nil, false
	}
	entry, ok := c.lru.Get(buildKey(kind, uri))
	if !ok {
		return nil, false
	}
	return &entry, true
}

// Generation must be read before loading the entry later passed to Set.
func (c *Cache) Generation(kind string) uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[kind]
}

// Set stores entry unless kind was invalidated after gen was read.
func (c *Cache) Set(kind, uri string, gen uint64, entry *model.Entry) bool {
	if c == nil || entry == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[kind] != gen {
		return false
	}
	c.lru.Add(buildKey(kind, uri), *entry)
	return true
}

// Invalidate drops every cached page of kind. Its signature matches the
// revision service change hook.
func (c *Cache) Invalidate(ctx context.Context, kind string) {
	if c == nil {
		return
	}
	prefix := kind + "|"
	dropped := 0
	c.mu.Lock()
	c.gens[kind]++
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lru.Remove(key)
			dropped++
		}
	}
	c.mu.Unlock()
	if dropped > 0 {
		logutil.GetLogger(ctx).Debug("page cache invalidated", zap.String("kind", kind), zap.Int("dropped", dropped))
	}
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
