package domain

import "time"

type TransactionState string

const (
	TxnInitiated TransactionState = "initiated"
	TxnConfirmed TransactionState = "confirmed"
	TxnFailed    TransactionState = "failed"
)

// PaymentTransaction is the single-use record behind one gateway round
// trip. It is created at initiate time, claimed exactly once during
// callback verification, and consulted by the order finalizer.
type PaymentTransaction struct {
	UUID        string           `json:"uuid"`
	Amount      Cents            `json:"amount"`
	ProductCode string           `json:"productCode"`
	ProductRef  string           `json:"productRef,omitempty"`
	SuccessURL  string           `json:"successUrl"`
	FailureURL  string           `json:"failureUrl"`
	State       TransactionState `json:"state"`
	CreatedAt   time.Time        `json:"createdAt"`
}
