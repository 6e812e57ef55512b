package domain

import "time"

// CartLine is one product in a cart. At most one line exists per
// (owner, product) pair; repeat adds increment Quantity instead.
type CartLine struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID   string    `json:"ownerId" gorm:"size:64;not null;uniqueIndex:idx_owner_product"`
	ProductID uint64    `json:"productId" gorm:"not null;uniqueIndex:idx_owner_product"`
	Name      string    `json:"name" gorm:"size:255"`
	Price     Cents     `json:"price" gorm:"not null"`
	Image     string    `json:"image" gorm:"size:512"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	AddedAt   time.Time `json:"addedAt" gorm:"autoCreateTime"`
}

// ProductSnapshot carries the display fields captured onto a CartLine
// when a product is first added.
type ProductSnapshot struct {
	Name  string `json:"name"`
	Price Cents  `json:"price"`
	Image string `json:"image"`
}

func (l *CartLine) Subtotal() Cents {
	return l.Price * Cents(l.Quantity)
}

// CartTotal sums line subtotals. Shipping is not included here; the
// checkout surcharge is applied when the order is finalized.
func CartTotal(lines []CartLine) Cents {
	var total Cents
	for i := range lines {
		total += lines[i].Subtotal()
	}
	return total
}
