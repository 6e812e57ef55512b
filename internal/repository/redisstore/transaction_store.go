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

const txnTTL = 24 * time.Hour

type transactionStore struct {
	client *redis.Client
}

func NewTransactionStore(client *redis.Client) repository.TransactionStore {
	return &transactionStore{client: client}
}

func txnKey(uuid string) string {
	return "payment:txn:" + uuid
}

func txnClaimKey(uuid string) string {
	return "payment:txn:" + uuid + ":claimed"
}

func (s *transactionStore) Create(ctx context.Context, txn *domain.PaymentTransaction) error {
	raw, err := json.Marshal(txn)
	if err != nil {
		return fmt.Errorf("transaction encode: %v", err)
	}
	if err := s.client.Set(ctx, txnKey(txn.UUID), raw, txnTTL).Err(); err != nil {
		return fmt.Errorf("transaction write: %v", err)
	}
	return nil
}

func (s *transactionStore) Get(ctx context.Context, uuid string) (*domain.PaymentTransaction, error) {
	raw, err := s.client.Get(ctx, txnKey(uuid)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("transaction read: %v", err)
	}
	var txn domain.PaymentTransaction
	if err := json.Unmarshal([]byte(raw), &txn); err != nil {
		return nil, fmt.Errorf("transaction decode: %v", err)
	}
	return &txn, nil
}

// Consume claims the transaction with SETNX on a claim key, so exactly
// one callback presentation of a given uuid can ever proceed.
func (s *transactionStore) Consume(ctx context.Context, uuid string) (bool, error) {
	ok, err := s.client.SetNX(ctx, txnClaimKey(uuid), time.Now().UTC().Format(time.RFC3339), txnTTL).Result()
	if err != nil {
		return false, fmt.Errorf("transaction claim: %v", err)
	}
	return ok, nil
}

func (s *transactionStore) SetState(ctx context.Context, uuid string, state domain.TransactionState) error {
	txn, err := s.Get(ctx, uuid)
	if err != nil {
		return err
	}
	if txn == nil {
		return fmt.Errorf("transaction %s not found", uuid)
	}
	txn.State = state

	raw, err := json.Marshal(txn)
	if err != nil {
		return fmt.Errorf("transaction encode: %v", err)
	}
	if err := s.client.Set(ctx, txnKey(uuid), raw, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("transaction write: %v", err)
	}
	return nil
}
