// Package cache provides the invalidation bus shared by every component
// that mutates a cached collection. The bus is passed by reference into
// services instead of living as a process-wide singleton, so ownership
// of cache coherence is visible in constructors.
package cache

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"
)

const invalidationChannel = "cache.invalidate"

type InvalidationBus interface {
	Invalidate(ctx context.Context, collections ...string)
}

// CollectionKey is the redis key under which a collection's cached
// reads live.
func CollectionKey(collection string) string {
	return "cache:" + collection
}

type redisBus struct {
	client *redis.Client
}

func NewRedisBus(client *redis.Client) InvalidationBus {
	return &redisBus{client: client}
}

// Invalidate drops the cached collection keys and broadcasts the
// collection names so other processes holding local copies can drop
// theirs. Failures are logged, not propagated: a stale cache entry
// expires on its own TTL.
func (b *redisBus) Invalidate(ctx context.Context, collections ...string) {
	for _, col := range collections {
		if err := b.client.Del(ctx, CollectionKey(col)).Err(); err != nil {
			log.Printf("cache invalidate %s: %v", col, err)
			continue
		}
		if err := b.client.Publish(ctx, invalidationChannel, col).Err(); err != nil {
			log.Printf("cache broadcast %s: %v", col, err)
		}
	}
}

// NopBus satisfies InvalidationBus where no cache is wired, e.g. in
// tests and the relay binary.
type NopBus struct{}

func (NopBus) Invalidate(ctx context.Context, collections ...string) {}
