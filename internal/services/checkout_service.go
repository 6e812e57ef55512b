package services

import (
	"context"
	"errors"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/payment"
	"storefront-service/internal/repository"
)

var ErrEmptyCart = errors.New("cart is empty")

// CheckoutService turns confirmed checkout details into an OrderIntent
// and hands the payment off to the relay. The intent is persisted keyed
// by the relay's transaction uuid before the browser ever leaves for
// the gateway, so finalization can always find it again.
type CheckoutService struct {
	relay      *payment.Relay
	intents    repository.IntentStore
	surcharge  domain.Cents
	successURL string
	failureURL string
}

func NewCheckoutService(relay *payment.Relay, intents repository.IntentStore, surcharge domain.Cents, successURL, failureURL string) *CheckoutService {
	return &CheckoutService{
		relay:      relay,
		intents:    intents,
		surcharge:  surcharge,
		successURL: successURL,
		failureURL: failureURL,
	}
}

type CheckoutResult struct {
	PaymentURL      string
	TransactionUUID string
	TotalAmount     domain.Cents
}

// Begin validates the checkout details for non-emptiness, snapshots the
// cart, initiates the payment, and stashes the intent. The charged
// amount is the cart total plus the fixed shipping surcharge.
func (s *CheckoutService) Begin(ctx context.Context, lines []domain.CartLine, contact domain.Contact, shipping domain.ShippingAddress, userID, deviceID string) (*CheckoutResult, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	intent := &domain.OrderIntent{
		Lines:      lines,
		Contact:    contact,
		Shipping:   shipping,
		TotalPrice: domain.CartTotal(lines),
		UserID:     userID,
		DeviceID:   deviceID,
		CreatedAt:  time.Now(),
	}
	if err := intent.Validate(); err != nil {
		return nil, err
	}

	total := intent.TotalPrice + s.surcharge
	initiated, err := s.relay.Initiate(ctx, total, "", s.successURL, s.failureURL)
	if err != nil {
		return nil, err
	}

	if err := s.intents.Put(ctx, initiated.TransactionUUID, intent); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		PaymentURL:      initiated.PaymentURL,
		TransactionUUID: initiated.TransactionUUID,
		TotalAmount:     total,
	}, nil
}
