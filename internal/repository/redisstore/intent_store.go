package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"github.com/go-redis/redis/v8"
)

const intentTTL = 24 * time.Hour

type intentStore struct {
	client *redis.Client
}

func NewIntentStore(client *redis.Client) repository.IntentStore {
	return &intentStore{client: client}
}

func intentKey(uuid string) string {
	return "checkout:intent:" + uuid
}

func (s *intentStore) Put(ctx context.Context, uuid string, intent *domain.OrderIntent) error {
	raw, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("intent encode: %v", err)
	}
	if err := s.client.Set(ctx, intentKey(uuid), raw, intentTTL).Err(); err != nil {
		return fmt.Errorf("intent write: %v", err)
	}
	return nil
}

func (s *intentStore) Get(ctx context.Context, uuid string) (*domain.OrderIntent, error) {
	raw, err := s.client.Get(ctx, intentKey(uuid)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("intent read: %v", err)
	}
	var intent domain.OrderIntent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return nil, fmt.Errorf("intent decode: %v", err)
	}
	return &intent, nil
}

func (s *intentStore) Delete(ctx context.Context, uuid string) error {
	if err := s.client.Del(ctx, intentKey(uuid)).Err(); err != nil {
		return fmt.Errorf("intent delete: %v", err)
	}
	return nil
}
