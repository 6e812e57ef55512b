package domain

import "time"

type OrderCreatedEvent struct {
	OrderID     uint64    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	TotalAmount Cents     `json:"totalAmount"`
	UserID      string    `json:"userId,omitempty"`
	Guest       bool      `json:"guest"`
	CreatedAt   time.Time `json:"createdAt"`
}

type PaymentConfirmedEvent struct {
	TransactionUUID string    `json:"transactionUuid"`
	TransactionCode string    `json:"transactionCode"`
	Amount          string    `json:"amount"`
	ConfirmedAt     time.Time `json:"confirmedAt"`
}
