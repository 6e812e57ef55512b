package domain

import (
	"errors"
	"time"
)

var ErrIncompleteIntent = errors.New("checkout details incomplete")

type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

type ShippingAddress struct {
	Address string  `json:"address"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

func (a ShippingAddress) String() string {
	return a.Address + ", " + a.City + ", " + a.State
}

// OrderIntent is the snapshot taken when the purchaser confirms checkout
// details. It is held server-side keyed by the payment transaction uuid
// until the payment round trip completes, so finalization can be retried
// after a partial failure.
type OrderIntent struct {
	Lines      []CartLine      `json:"lines"`
	Contact    Contact         `json:"contact"`
	Shipping   ShippingAddress `json:"shipping"`
	TotalPrice Cents           `json:"totalPrice"`
	UserID     string          `json:"userId"`
	DeviceID   string          `json:"deviceId"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (i *OrderIntent) IsGuest() bool {
	return i.UserID == ""
}

// Validate checks non-emptiness only; field formats are not this
// layer's concern.
func (i *OrderIntent) Validate() error {
	if len(i.Lines) == 0 {
		return ErrIncompleteIntent
	}
	if i.Contact.FirstName == "" || i.Contact.LastName == "" || i.Contact.Email == "" || i.Contact.Phone == "" {
		return ErrIncompleteIntent
	}
	if i.Shipping.Address == "" || i.Shipping.City == "" || i.Shipping.State == "" {
		return ErrIncompleteIntent
	}
	return nil
}
