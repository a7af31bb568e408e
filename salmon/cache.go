package salmon

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/vitalvas/salmon/magicsig"
)

// KeyCache memoizes a KeyResolver for a fixed time. Failed lookups are not
// cached. It is safe for concurrent use.
type KeyCache struct {
	next  magicsig.KeyResolver
	cache *cache.Cache
}

// NewCachingResolver wraps next with a cache holding resolved keys for ttl.
// Use its Resolve method as a magicsig.KeyResolver.
func NewCachingResolver(next magicsig.KeyResolver, ttl time.Duration) *KeyCache {
	return &KeyCache{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Resolve returns the cached key for signerURI or asks the wrapped resolver.
// Signer URIs are normalized before use as cache keys.
func (c *KeyCache) Resolve(ctx context.Context, signerURI string) (*magicsig.KeyMaterial, error) {
	id := magicsig.Normalize(signerURI)

	if cached, ok := c.cache.Get(id); ok {
		return cached.(*magicsig.KeyMaterial), nil
	}

	key, err := c.next(ctx, id)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(id, key)

	return key, nil
}

// Forget drops the cached key of signerURI, for example after a signer
// rotated its key.
func (c *KeyCache) Forget(signerURI string) {
	c.cache.Delete(magicsig.Normalize(signerURI))
}

// Len returns the number of cached keys, including expired ones not yet
// evicted.
func (c *KeyCache) Len() int {
	return c.cache.ItemCount()
}
