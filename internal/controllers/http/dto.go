package http

import (
	"storefront-service/internal/domain"
	"storefront-service/internal/services"
)

// Prices travel as integer cents on this API.

type AddCartItemRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Price     int64  `json:"price" binding:"required,min=0"`
	Image     string `json:"image"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Lines []domain.CartLine `json:"lines"`
	Total string            `json:"total"`
}

type CheckoutRequest struct {
	Contact  domain.Contact         `json:"contact" binding:"required"`
	Shipping domain.ShippingAddress `json:"shipping" binding:"required"`
}

type CheckoutResponse struct {
	PaymentURL      string `json:"payment_url"`
	TransactionUUID string `json:"transaction_uuid"`
	TotalAmount     string `json:"totalAmount"`
}

type FinalizeRequest struct {
	TransactionUUID string `json:"transactionUuid" binding:"required"`
}

type FinalizeResponse struct {
	Order            *domain.Order `json:"order"`
	GuestAccessToken string        `json:"guestAccessToken,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type GuestRefreshRequest struct {
	Orders []services.GuestOrderRef `json:"orders" binding:"required"`
}

type InitiatePaymentRequest struct {
	Amount     float64 `json:"amount" binding:"required"`
	ProductID  uint64  `json:"productId"`
	SuccessURL string  `json:"successUrl" binding:"required"`
	FailureURL string  `json:"failureUrl" binding:"required"`
}

type InitiatePaymentResponse struct {
	PaymentURL string `json:"payment_url"`
}
