package domain

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusCompleted  OrderStatus = "completed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusCompleted
}

func (s OrderStatus) String() string {
	return string(s)
}

// Order is the durable record created once per confirmed payment.
// An empty UserID marks a guest order; guest orders are tracked through
// a GuestOrder side record instead of a CustomerDetail.
type Order struct {
	ID               uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber      string      `json:"orderNumber" gorm:"size:32;uniqueIndex"`
	TransactionUUID  string      `json:"transactionUuid" gorm:"size:64;uniqueIndex"`
	TotalAmount      Cents       `json:"totalAmount" gorm:"not null"`
	Status           OrderStatus `json:"status" gorm:"type:enum('pending','processing','shipped','delivered','cancelled','completed');default:'pending'"`
	UserID           string      `json:"userId" gorm:"size:64;index"`
	CustomerDetailID *uint64     `json:"customerDetailId"`
	Items            []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	OrderDate        time.Time   `json:"orderDate" gorm:"autoCreateTime"`
}

func (o *Order) IsGuest() bool {
	return o.UserID == ""
}

type OrderItem struct {
	ID        uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   uint64 `json:"orderId" gorm:"not null;index"`
	ProductID uint64 `json:"productId" gorm:"not null"`
	Name      string `json:"name" gorm:"size:255"`
	Quantity  int    `json:"quantity" gorm:"not null"`
	Price     Cents  `json:"price" gorm:"not null"`
}

// CustomerDetail is created only for authenticated purchasers, one per
// order, referenced from Order.CustomerDetailID.
type CustomerDetail struct {
	ID              uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          string    `json:"userId" gorm:"size:64;not null;index"`
	CustomerName    string    `json:"customerName" gorm:"size:255"`
	ShippingAddress string    `json:"shippingAddress" gorm:"size:512"`
	CreatedAt       time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// GuestOrder lets an anonymous purchaser recover order status later.
// Possession of AccessToken is the only access control; tokens do not
// expire.
type GuestOrder struct {
	ID              uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID         uint64    `json:"orderId" gorm:"not null;uniqueIndex"`
	CustomerName    string    `json:"customerName" gorm:"size:255"`
	CustomerEmail   string    `json:"customerEmail" gorm:"size:255"`
	ShippingAddress string    `json:"shippingAddress" gorm:"size:512"`
	AccessToken     string    `json:"accessToken" gorm:"size:64;index"`
	CreatedAt       time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
