package database

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/kernel-tuning/tunedb/pkg/defaults"
	tderrors "github.com/kernel-tuning/tunedb/pkg/errors"
)

// CachedBuilder memoizes successful resolutions of a Builder.
//
// Only calls without an overlay are cached, because the overlay is supplied
// per call and is not part of the key. The cache holds at most a fixed
// number of entries and evicts the least recently used one when full.
// Concurrent misses for the same key share one resolution. Every caller
// receives its own copy. Failures are not cached.
type CachedBuilder struct {
	builder *Builder

	group   singleflight.Group
	entries *lru.Cache[string, *Database]
}

// CacheOption configures a CachedBuilder.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	maxEntries int
}

// WithMaxEntries bounds the number of cached resolutions. Values below one
// keep the default.
func WithMaxEntries(n int) CacheOption {
	return func(c *cacheConfig) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// NewCachedBuilder wraps b. Without options the cache holds up to
// defaults.CacheMaxEntries resolutions.
func NewCachedBuilder(b *Builder, opts ...CacheOption) *CachedBuilder {
	cfg := cacheConfig{maxEntries: defaults.CacheMaxEntries}
	for _, opt := range opts {
		opt(&cfg)
	}

	// lru.New only fails on a non-positive size
	entries, err := lru.New[string, *Database](cfg.maxEntries)
	if err != nil {
		panic(err)
	}
	return &CachedBuilder{
		builder: b,
		entries: entries,
	}
}

func cacheKey(dev DeviceInfo, kernel string, p Precision) string {
	return strings.Join([]string{
		dev.Type(), dev.Vendor(), dev.Name(), dev.Capabilities(), kernel, string(p),
	}, "\x00")
}

// Build implements Resolver.
func (c *CachedBuilder) Build(ctx context.Context, dev DeviceInfo, kernel string, p Precision, overlay KnowledgeBase) (*Database, error) {
	if len(overlay) > 0 || dev == nil {
		cacheRequestsTotal.WithLabelValues("bypass").Inc()
		return c.builder.Build(ctx, dev, kernel, p, overlay)
	}
	if err := ctx.Err(); err != nil {
		return nil, tderrors.Wrap(tderrors.ErrCodeTimeout, "context cancelled", err)
	}

	key := cacheKey(dev, kernel, p)

	if db, ok := c.entries.Get(key); ok {
		cacheRequestsTotal.WithLabelValues("hit").Inc()
		return db.clone(), nil
	}

	cacheRequestsTotal.WithLabelValues("miss").Inc()
	// the flight is shared, so one caller's cancellation must not fail the others
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(key, func() (any, error) {
		db, err := c.builder.Build(flightCtx, dev, kernel, p, nil)
		if err != nil {
			return nil, err
		}
		if c.entries.Add(key, db) {
			cacheEvictionsTotal.Inc()
		}
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Database).clone(), nil
}

// Len returns the number of cached resolutions.
func (c *CachedBuilder) Len() int {
	return c.entries.Len()
}

// Reset drops every cached resolution.
func (c *CachedBuilder) Reset() {
	c.entries.Purge()
}
