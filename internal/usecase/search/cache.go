package search

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kailas-cloud/assetdex/internal/domain/search/query"
	"github.com/kailas-cloud/assetdex/internal/domain/search/result"
	"github.com/kailas-cloud/assetdex/internal/metrics"
)

// CachedSearcher memoizes result sets by descriptor fingerprint and calendar day.
// The day is part of the key because date buckets move at midnight.
// Cached sets are shared: callers must not modify them.
type CachedSearcher struct {
	inner Searcher
	cache *expirable.LRU[string, result.Set]
	clock Clock
}

var _ Searcher = (*CachedSearcher)(nil)

// NewCachedSearcher wraps inner with an LRU of maxSize entries expiring after ttl.
func NewCachedSearcher(inner Searcher, maxSize int, ttl time.Duration, clock Clock) *CachedSearcher {
	if clock == nil {
		clock = time.Now
	}
	return &CachedSearcher{
		inner: inner,
		cache: expirable.NewLRU[string, result.Set](maxSize, nil, ttl),
		clock: clock,
	}
}

// Search returns the cached set for d or delegates and caches the outcome.
func (c *CachedSearcher) Search(ctx context.Context, d query.Descriptor) (result.Set, error) {
	key := c.clock().Format(time.DateOnly) + "|" + d.Fingerprint()
	if set, ok := c.cache.Get(key); ok {
		metrics.SearchCacheTotal.WithLabelValues("hit").Inc()
		return set, nil
	}
	metrics.SearchCacheTotal.WithLabelValues("miss").Inc()

	set, err := c.inner.Search(ctx, d)
	if err != nil {
		return result.Set{}, err
	}
	c.cache.Add(key, set)
	return set, nil
}

// Len returns the number of cached sets.
func (c *CachedSearcher) Len() int { return c.cache.Len() }
