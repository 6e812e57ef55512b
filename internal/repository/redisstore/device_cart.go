package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"github.com/go-redis/redis/v8"
)

const deviceCartTTL = 30 * 24 * time.Hour

// Cart lines for anonymous sessions, stored as a redis hash keyed by
// device id with one field per product. Carts idle for a month expire.
type deviceCartRepo struct {
	client *redis.Client
}

func NewDeviceCartRepository(client *redis.Client) repository.CartRepository {
	return &deviceCartRepo{client: client}
}

func deviceCartKey(ownerID string) string {
	return "cart:device:" + ownerID
}

func (r *deviceCartRepo) Lines(ctx context.Context, ownerID string) ([]domain.CartLine, error) {
	fields, err := r.client.HGetAll(ctx, deviceCartKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("device cart read: %v", err)
	}

	out := make([]domain.CartLine, 0, len(fields))
	for _, raw := range fields {
		var line domain.CartLine
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			return nil, fmt.Errorf("device cart decode: %v", err)
		}
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.Before(out[j].AddedAt) })
	return out, nil
}

func (r *deviceCartRepo) Upsert(ctx context.Context, line *domain.CartLine) error {
	raw, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("device cart encode: %v", err)
	}

	key := deviceCartKey(line.OwnerID)
	field := fmt.Sprintf("%d", line.ProductID)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, field, raw)
	pipe.Expire(ctx, key, deviceCartTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("device cart write: %v", err)
	}
	return nil
}

func (r *deviceCartRepo) Remove(ctx context.Context, ownerID string, productID uint64) error {
	field := fmt.Sprintf("%d", productID)
	if err := r.client.HDel(ctx, deviceCartKey(ownerID), field).Err(); err != nil {
		return fmt.Errorf("device cart remove: %v", err)
	}
	return nil
}

func (r *deviceCartRepo) Clear(ctx context.Context, ownerID string) error {
	if err := r.client.Del(ctx, deviceCartKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("device cart clear: %v", err)
	}
	return nil
}
