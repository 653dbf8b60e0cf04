/*
Package rediscache caches the JSON-serialized result of a mdfs run behind a
redis key, so repeated invocations with the same input/spec (keyed by the
caller, e.g. a hash of both) can skip recomputation.

Grounded on tree/redisstore/redisstore.go: a thin wrapper around a
*redis.Client with a key prefix, Get/Store symmetric on raw bytes.
*/
package rediscache

import (
	"bytes"
	"fmt"

	"gopkg.in/redis.v5"

	"github.com/pbanos/mdfs"
	"github.com/pbanos/mdfs/pkg/bio"
)

// Cache stores mdfs run outputs, serialized as JSON, behind prefix-scoped
// redis keys.
type Cache struct {
	rc     *redis.Client
	prefix string
}

// New builds a Cache backed by rc, namespacing every key under prefix.
func New(rc *redis.Client, prefix string) *Cache {
	return &Cache{rc, prefix}
}

// Store serializes out as JSON and writes it under key, with no expiry.
// Grounded on redisStore.Store's encode-then-Set.
func (c *Cache) Store(key string, out *mdfs.Output) error {
	var buf bytes.Buffer
	if err := bio.WriteJSON(&buf, out); err != nil {
		return fmt.Errorf("rediscache: encoding output for %q: %v", key, err)
	}
	if _, err := c.rc.Set(c.keyFor(key), buf.String(), 0).Result(); err != nil {
		return fmt.Errorf("rediscache: storing %q in redis: %v", key, err)
	}
	return nil
}

// Get returns the raw JSON previously stored under key, or ("", nil) if no
// entry exists. Grounded on redisStore.Get's empty-string-means-miss check.
func (c *Cache) Get(key string) (string, error) {
	data, err := c.rc.Get(c.keyFor(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("rediscache: retrieving %q: %v", key, err)
	}
	return data, nil
}

// Delete removes key's cached entry, if any.
func (c *Cache) Delete(key string) error {
	if _, err := c.rc.Del(c.keyFor(key)).Result(); err != nil {
		return fmt.Errorf("rediscache: deleting %q: %v", key, err)
	}
	return nil
}

func (c *Cache) keyFor(key string) string {
	return fmt.Sprintf("%s:%s", c.prefix, key)
}
