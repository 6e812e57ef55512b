package repository

import (
	"context"

	"storefront-service/internal/domain"
)

// CartRepository persists cart lines for one kind of owner. Two
// implementations exist: a MySQL-backed one keyed by user id for
// authenticated sessions, and a redis-backed one keyed by device id for
// guests. The implementation is chosen once per session, so callers
// never branch on identity state.
type CartRepository interface {
	Lines(ctx context.Context, ownerID string) ([]domain.CartLine, error)
	// Upsert inserts the line or, if a line for the same
	// (owner, product) pair exists, overwrites its quantity and
	// snapshot fields.
	Upsert(ctx context.Context, line *domain.CartLine) error
	Remove(ctx context.Context, ownerID string, productID uint64) error
	Clear(ctx context.Context, ownerID string) error
}
