package client

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/samwightt/archivist/pkg/schema"
)

// DefaultCacheSize is the number of catalogues kept by a CatalogCache.
const DefaultCacheSize = 8

// Loader builds a catalogue, usually by introspecting an endpoint.
type Loader func(ctx context.Context) (*schema.Catalog, error)

// CatalogCache keeps processed catalogues per endpoint. Concurrent loads of
// the same key share one call. Failed loads are not cached.
type CatalogCache struct {
	cache *lru.Cache[string, *schema.Catalog]
	group singleflight.Group
}

// NewCatalogCache creates a cache holding at most size catalogues.
func NewCatalogCache(size int) (*CatalogCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, *schema.Catalog](size)
	if err != nil {
		return nil, err
	}
	return &CatalogCache{cache: c}, nil
}

// Get returns the catalogue cached under key, loading it on a miss.
func (c *CatalogCache) Get(ctx context.Context, key string, load Loader) (*schema.Catalog, error) {
	if catalog, ok := c.cache.Get(key); ok {
		return catalog, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		if catalog, ok := c.cache.Get(key); ok {
			return catalog, nil
		}
		catalog, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, catalog)
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*schema.Catalog), nil
}

// Invalidate drops the catalogue cached under key.
func (c *CatalogCache) Invalidate(key string) {
	c.cache.Remove(key)
}

// Len returns the number of cached catalogues.
func (c *CatalogCache) Len() int {
	return c.cache.Len()
}
