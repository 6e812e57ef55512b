// Package memstore provides in-memory implementations of the cart,
// intent and transaction stores. They back local development runs and
// the service-level tests, which exercise the same interfaces the
// redis-backed stores implement.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"
)

type CartStore struct {
	mu    sync.RWMutex
	lines map[string]map[uint64]domain.CartLine // ownerID -> productID -> line
}

func NewCartStore() *CartStore {
	return &CartStore{lines: make(map[string]map[uint64]domain.CartLine)}
}

var _ repository.CartRepository = (*CartStore)(nil)

func (s *CartStore) Lines(ctx context.Context, ownerID string) ([]domain.CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := s.lines[ownerID]
	out := make([]domain.CartLine, 0, len(owned))
	for _, line := range owned {
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (s *CartStore) Upsert(ctx context.Context, line *domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned, ok := s.lines[line.OwnerID]
	if !ok {
		owned = make(map[uint64]domain.CartLine)
		s.lines[line.OwnerID] = owned
	}
	owned[line.ProductID] = *line
	return nil
}

func (s *CartStore) Remove(ctx context.Context, ownerID string, productID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lines[ownerID], productID)
	return nil
}

func (s *CartStore) Clear(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lines, ownerID)
	return nil
}

type TransactionStore struct {
	mu      sync.Mutex
	txns    map[string]domain.PaymentTransaction
	claimed map[string]bool
}

func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		txns:    make(map[string]domain.PaymentTransaction),
		claimed: make(map[string]bool),
	}
}

var _ repository.TransactionStore = (*TransactionStore)(nil)

func (s *TransactionStore) Create(ctx context.Context, txn *domain.PaymentTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns[txn.UUID] = *txn
	return nil
}

func (s *TransactionStore) Get(ctx context.Context, uuid string) (*domain.PaymentTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.txns[uuid]
	if !ok {
		return nil, nil
	}
	return &txn, nil
}

func (s *TransactionStore) Consume(ctx context.Context, uuid string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimed[uuid] {
		return false, nil
	}
	s.claimed[uuid] = true
	return true, nil
}

func (s *TransactionStore) SetState(ctx context.Context, uuid string, state domain.TransactionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.txns[uuid]
	if !ok {
		return fmt.Errorf("transaction %s not found", uuid)
	}
	txn.State = state
	s.txns[uuid] = txn
	return nil
}

type IntentStore struct {
	mu      sync.RWMutex
	intents map[string]domain.OrderIntent
}

func NewIntentStore() *IntentStore {
	return &IntentStore{intents: make(map[string]domain.OrderIntent)}
}

var _ repository.IntentStore = (*IntentStore)(nil)

func (s *IntentStore) Put(ctx context.Context, uuid string, intent *domain.OrderIntent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intents[uuid] = *intent
	return nil
}

func (s *IntentStore) Get(ctx context.Context, uuid string) (*domain.OrderIntent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	intent, ok := s.intents[uuid]
	if !ok {
		return nil, nil
	}
	return &intent, nil
}

func (s *IntentStore) Delete(ctx context.Context, uuid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.intents, uuid)
	return nil
}
