package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/rarity"
)

// poolKey names the one snapshot the cache holds. Draws fall back across scopes and tiers,
// so every booster needs the whole active catalog and per-scope entries would be duplicates.
const poolKey = "pool:active"

// cachedPool is one cached catalog snapshot
type cachedPool struct {
	pool      *rarity.Pool
	timestamp time.Time
}

// PoolCache wraps a PoolSource and keeps the indexed catalog for ttl.
// Concurrent misses share a single rebuild.
type PoolCache struct {
	source       rarity.PoolSource
	cache        *lru.Cache
	ttl          time.Duration
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	mu           sync.Mutex
}

// NewPoolCache creates a cached pool source. A ttl of zero disables caching.
func NewPoolCache(source rarity.PoolSource, ttl time.Duration, timeProvider coreport.TimeProvider, logger coreport.Logger) (*PoolCache, error) {
	cache, err := lru.New(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool cache: %w", err)
	}
	return &PoolCache{
		source:       source,
		cache:        cache,
		ttl:          ttl,
		timeProvider: timeProvider,
		logger:       logger,
	}, nil
}

// Pool implements rarity.PoolSource
func (c *PoolCache) Pool(ctx context.Context) (*rarity.Pool, error) {
	if c.ttl <= 0 {
		return c.source.Pool(ctx)
	}
	if pool, ok := c.fresh(); ok {
		return pool, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have rebuilt while we waited
	if pool, ok := c.fresh(); ok {
		return pool, nil
	}

	pool, err := c.source.Pool(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Add(poolKey, cachedPool{pool: pool, timestamp: c.timeProvider.Now()})
	c.logger.Debug("Card pool cached", map[string]any{
		"cards":   pool.Size(),
		"ttl_sec": c.ttl.Seconds(),
	})
	return pool, nil
}

// Invalidate drops the cached snapshot, forcing the next call to rebuild
func (c *PoolCache) Invalidate() {
	c.cache.Remove(poolKey)
}

func (c *PoolCache) fresh() (*rarity.Pool, bool) {
	cached, ok := c.cache.Get(poolKey)
	if !ok {
		return nil, false
	}
	entry, ok := cached.(cachedPool)
	if !ok || c.timeProvider.Since(entry.timestamp) >= c.ttl {
		return nil, false
	}
	return entry.pool, true
}

var _ rarity.PoolSource = (*PoolCache)(nil)
