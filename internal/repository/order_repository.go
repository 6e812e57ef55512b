package repository

import (
	"storefront-service/internal/domain"
)

// OrderRepository owns the order aggregate: the order row, its items,
// and the per-order side records (customer detail for authenticated
// purchasers, guest order for anonymous ones). Lookups return nil when
// no row matches.
type OrderRepository interface {
	Save(order *domain.Order) error
	FindByID(id uint64) (*domain.Order, error)
	FindByTransactionUUID(uuid string) (*domain.Order, error)
	FindByUserID(userID string) ([]domain.Order, error)
	UpdateStatus(id uint64, status domain.OrderStatus) error
	SaveCustomerDetail(detail *domain.CustomerDetail) error
	SaveGuestOrder(guest *domain.GuestOrder) error
	FindGuestOrder(orderID uint64) (*domain.GuestOrder, error)
}
