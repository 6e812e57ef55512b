package services

import (
	"context"
	"errors"
	"testing"

	"storefront-service/internal/domain"
	"storefront-service/internal/mocks"
	"storefront-service/internal/payment"
	"storefront-service/internal/repository/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	successPage = "https://shop.example/payment/success"
	failurePage = "https://shop.example/payment/failure"
)

func newCheckoutService() (*CheckoutService, *mocks.MockGateway, *memstore.IntentStore) {
	gateway := new(mocks.MockGateway)
	relay := payment.NewRelay(payment.NewSigner("test-secret"), gateway, memstore.NewTransactionStore(), "EPAYTEST", failurePage)
	intents := memstore.NewIntentStore()
	svc := NewCheckoutService(relay, intents, testSurcharge, successPage, failurePage)
	return svc, gateway, intents
}

func TestCheckout_BeginStashesIntentAndReturnsPaymentURL(t *testing.T) {
	svc, gateway, intents := newCheckoutService()
	gateway.On("SubmitForm", mock.Anything, mock.Anything).Return("https://gateway.example/pay/xyz", nil)

	lines := []domain.CartLine{
		makeLine(testDeviceID, 7, 1299, 2),
		makeLine(testDeviceID, 9, 500, 1),
	}

	result, err := svc.Begin(context.Background(), lines, validContact(), validShipping(), "", testDeviceID)
	require.NoError(t, err)

	assert.Equal(t, "https://gateway.example/pay/xyz", result.PaymentURL)
	assert.NotEmpty(t, result.TransactionUUID)
	// 12.99*2 + 5.00 + 5.99 shipping
	assert.Equal(t, domain.Cents(3697), result.TotalAmount)

	intent, err := intents.Get(context.Background(), result.TransactionUUID)
	require.NoError(t, err)
	require.NotNil(t, intent)
	assert.Equal(t, domain.Cents(3098), intent.TotalPrice)
	assert.Len(t, intent.Lines, 2)
	assert.Equal(t, testDeviceID, intent.DeviceID)
	assert.True(t, intent.IsGuest())
}

func TestCheckout_BeginEmptyCart(t *testing.T) {
	svc, _, _ := newCheckoutService()

	result, err := svc.Begin(context.Background(), nil, validContact(), validShipping(), testUserID, "")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, result)
}

func TestCheckout_BeginIncompleteDetails(t *testing.T) {
	svc, _, _ := newCheckoutService()
	lines := []domain.CartLine{makeLine(testUserID, 7, 1299, 1)}

	tests := []struct {
		name     string
		contact  domain.Contact
		shipping domain.ShippingAddress
	}{
		{"missing email", domain.Contact{FirstName: "A", LastName: "B", Phone: "1"}, validShipping()},
		{"missing phone", domain.Contact{FirstName: "A", LastName: "B", Email: "a@b.c"}, validShipping()},
		{"missing city", validContact(), domain.ShippingAddress{Address: "x", State: "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Begin(context.Background(), lines, tt.contact, tt.shipping, testUserID, "")
			assert.ErrorIs(t, err, domain.ErrIncompleteIntent)
			assert.Nil(t, result)
		})
	}
}

func TestCheckout_BeginRelayFailure(t *testing.T) {
	svc, gateway, _ := newCheckoutService()
	gateway.On("SubmitForm", mock.Anything, mock.Anything).Return("", errors.New("gateway down"))

	lines := []domain.CartLine{makeLine(testUserID, 7, 1299, 1)}
	result, err := svc.Begin(context.Background(), lines, validContact(), validShipping(), testUserID, "")
	assert.Error(t, err)
	assert.Nil(t, result)
}
