package repository

import (
	"context"

	"storefront-service/internal/domain"
)

// TransactionStore holds the single-use payment transaction records the
// relay creates per initiate call. Get returns nil for unknown uuids.
type TransactionStore interface {
	Create(ctx context.Context, txn *domain.PaymentTransaction) error
	Get(ctx context.Context, uuid string) (*domain.PaymentTransaction, error)
	// Consume atomically claims the transaction for verification.
	// It returns false if the transaction was already claimed, which
	// makes a replayed gateway callback fail.
	Consume(ctx context.Context, uuid string) (bool, error)
	SetState(ctx context.Context, uuid string, state domain.TransactionState) error
}

// IntentStore stashes the OrderIntent between checkout confirmation and
// order finalization, keyed by transaction uuid. Get returns nil for
// unknown uuids.
type IntentStore interface {
	Put(ctx context.Context, uuid string, intent *domain.OrderIntent) error
	Get(ctx context.Context, uuid string) (*domain.OrderIntent, error)
	Delete(ctx context.Context, uuid string) error
}
