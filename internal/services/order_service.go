package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"storefront-service/internal/cache"
	"storefront-service/internal/domain"
	"storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrTransactionNotFound = errors.New("payment transaction not found")
	ErrPaymentNotConfirmed = errors.New("payment not confirmed")
	ErrIntentNotFound      = errors.New("no pending checkout for transaction")
	ErrInvalidStatus       = errors.New("invalid order status")
)

// OrderService finalizes paid checkouts into durable orders and serves
// order reads. Finalization is idempotent per transaction uuid and
// resumable: the stashed intent survives a failed attempt and is only
// deleted once the order row exists.
type OrderService struct {
	repo        repository.OrderRepository
	txns        repository.TransactionStore
	intents     repository.IntentStore
	userCarts   repository.CartRepository
	deviceCarts repository.CartRepository
	publisher   rabbitmq.PublisherInterface
	bus         cache.InvalidationBus
	surcharge   domain.Cents
}

func NewOrderService(
	repo repository.OrderRepository,
	txns repository.TransactionStore,
	intents repository.IntentStore,
	userCarts repository.CartRepository,
	deviceCarts repository.CartRepository,
	publisher rabbitmq.PublisherInterface,
	bus cache.InvalidationBus,
	surcharge domain.Cents,
) *OrderService {
	return &OrderService{
		repo:        repo,
		txns:        txns,
		intents:     intents,
		userCarts:   userCarts,
		deviceCarts: deviceCarts,
		publisher:   publisher,
		bus:         bus,
		surcharge:   surcharge,
	}
}

type FinalizeResult struct {
	Order *domain.Order
	// GuestAccessToken is set only on the first finalization of a
	// guest order; it is the purchaser's only handle on the order.
	GuestAccessToken string
}

// Finalize creates the durable order for a confirmed payment. Calling
// it again for the same transaction returns the already-created order.
func (s *OrderService) Finalize(ctx context.Context, transactionUUID string) (*FinalizeResult, error) {
	existing, err := s.repo.FindByTransactionUUID(transactionUUID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &FinalizeResult{Order: existing}, nil
	}

	txn, err := s.txns.Get(ctx, transactionUUID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}
	if txn.State != domain.TxnConfirmed {
		return nil, ErrPaymentNotConfirmed
	}

	intent, err := s.intents.Get(ctx, transactionUUID)
	if err != nil {
		return nil, err
	}
	if intent == nil {
		return nil, ErrIntentNotFound
	}

	totalAmount := domain.CartTotal(intent.Lines) + s.surcharge

	order := &domain.Order{
		OrderNumber:     newOrderNumber(time.Now()),
		TransactionUUID: transactionUUID,
		TotalAmount:     totalAmount,
		Status:          domain.StatusPending,
		UserID:          intent.UserID,
		OrderDate:       time.Now(),
	}
	for _, line := range intent.Lines {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}

	// Authenticated purchasers get a CustomerDetail row first; if that
	// write fails the order is not created and the intent stays put,
	// so the purchaser can retry finalization.
	if !intent.IsGuest() {
		detail := &domain.CustomerDetail{
			UserID:          intent.UserID,
			CustomerName:    intent.Contact.FullName(),
			ShippingAddress: intent.Shipping.String(),
		}
		if err := s.repo.SaveCustomerDetail(detail); err != nil {
			return nil, err
		}
		order.CustomerDetailID = &detail.ID
	}

	if err := s.repo.Save(order); err != nil {
		return nil, err
	}

	result := &FinalizeResult{Order: order}
	if intent.IsGuest() {
		guest := &domain.GuestOrder{
			OrderID:         order.ID,
			CustomerName:    intent.Contact.FullName(),
			CustomerEmail:   intent.Contact.Email,
			ShippingAddress: intent.Shipping.String(),
			AccessToken:     uuid.NewString(),
		}
		if err := s.repo.SaveGuestOrder(guest); err != nil {
			// The order row exists; losing the side record only
			// costs the guest their status page.
			log.Printf("guest order record failed for order %d: %v", order.ID, err)
		} else {
			result.GuestAccessToken = guest.AccessToken
		}
	}

	if err := s.intents.Delete(ctx, transactionUUID); err != nil {
		log.Printf("intent cleanup failed for %s: %v", transactionUUID, err)
	}
	s.clearCart(ctx, intent)

	go s.publishOrderCreated(context.Background(), order)
	if s.bus != nil {
		s.bus.Invalidate(ctx, "orders")
	}

	return result, nil
}

func (s *OrderService) clearCart(ctx context.Context, intent *domain.OrderIntent) {
	var err error
	if intent.IsGuest() {
		err = s.deviceCarts.Clear(ctx, intent.DeviceID)
	} else {
		err = s.userCarts.Clear(ctx, intent.UserID)
	}
	if err != nil {
		log.Printf("cart clear after finalize failed: %v", err)
	}
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *domain.Order) {
	evt := domain.OrderCreatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
		UserID:      order.UserID,
		Guest:       order.IsGuest(),
		CreatedAt:   order.OrderDate,
	}
	if err := s.publisher.Publish(ctx, "order.created", evt); err != nil {
		log.Printf("Failed to publish order.created: %v", err)
	}
}

func (s *OrderService) GetOrderById(id uint64) (*domain.Order, error) {
	o, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) GetOrdersByUser(userID string) ([]domain.Order, error) {
	orders, err := s.repo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		return nil, ErrOrderNotFound
	}
	return orders, nil
}

// UpdateStatus is the back-office path for moving an order through
// fulfillment. The status must be one of the closed set.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(id, status); err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.Invalidate(ctx, "orders")
	}
	return nil
}

// Order numbers are human-readable and time-derived; the random suffix
// keeps two orders in the same second distinct.
func newOrderNumber(t time.Time) string {
	return fmt.Sprintf("ORD-%s-%04d", t.Format("20060102-150405"), rand.Intn(10000))
}
