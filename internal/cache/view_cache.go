// Package cache stores rendered read-path results keyed by request path.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "view:"

// ViewCache keeps one generation counter per path. Entries are stored under the
// current generation, so bumping the counter invalidates every variant of the path
// (page, search query) in a single atomic step.
type ViewCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewViewCache builds a cache. A zero ttl stores entries without expiry.
func NewViewCache(client redis.Cmdable, ttl time.Duration) *ViewCache {
	return &ViewCache{client: client, ttl: ttl}
}

// Slot is the result of a lookup. A miss can be filled with Fill; the slot stays
// bound to the generation seen at lookup time, so a body computed before an
// invalidation never lands in the fresh generation.
type Slot struct {
	key  string
	Body []byte
	Hit  bool
}

// Lookup returns the cached body for path+variant.
func (c *ViewCache) Lookup(ctx context.Context, path, variant string) (*Slot, error) {
	key, err := c.entryKey(ctx, path, variant)
	if err != nil {
		return nil, err
	}
	body, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Slot{key: key}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Slot{key: key, Body: body, Hit: true}, nil
}

// Fill stores body in a slot returned by Lookup.
func (c *ViewCache) Fill(ctx context.Context, slot *Slot, body []byte) error {
	return c.client.Set(ctx, slot.key, body, c.ttl).Err()
}

// Invalidate marks every cached variant of path stale. Once it returns, no later Get
// observes an entry written before the call.
func (c *ViewCache) Invalidate(ctx context.Context, path string) error {
	return c.client.Incr(ctx, generationKey(path)).Err()
}

func (c *ViewCache) entryKey(ctx context.Context, path, variant string) (string, error) {
	gen, err := c.client.Get(ctx, generationKey(path)).Result()
	if errors.Is(err, redis.Nil) {
		gen = "0"
	} else if err != nil {
		return "", err
	}
	return keyPrefix + path + ":" + gen + ":" + variant, nil
}

func generationKey(path string) string {
	return keyPrefix + path + ":gen"
}
