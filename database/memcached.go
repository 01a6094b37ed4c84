package database

import (
	"errors"

	"github.com/bradfitz/gomemcache/memcache"
)

// ErrCacheMiss is returned when a key is not cached
var ErrCacheMiss = errors.New("cache miss")

// Cache keeps short-lived JSON documents
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl int32) error
	Delete(key string) error
}

// MemCache is the Cache backed by Memcached
type MemCache struct {
	client *memcache.Client
}

// NewMemCache creates a cache on the given Memcached servers
func NewMemCache(servers ...string) *MemCache {
	return &MemCache{client: memcache.New(servers...)}
}

// Get reads a cached value
func (c *MemCache) Get(key string) ([]byte, error) {
	item, err := c.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, ErrCacheMiss
	} else if err != nil {
		return nil, err
	}

	return item.Value, nil
}

// Set permits to set a temporary value, ttl in seconds
func (c *MemCache) Set(key string, value []byte, ttl int32) error {
	return c.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: ttl,
	})
}

// Delete drops a key, a missing key is not an error
func (c *MemCache) Delete(key string) error {
	err := c.client.Delete(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil
	}

	return err
}

// NopCache never stores anything
type NopCache struct{}

func (NopCache) Get(string) ([]byte, error) { return nil, ErrCacheMiss }
func (NopCache) Set(string, []byte, int32) error { return nil }
func (NopCache) Delete(string) error { return nil }
