package services

import (
	"time"

	"storefront-service/internal/domain"
)

func makeLine(ownerID string, productID uint64, price domain.Cents, qty int) domain.CartLine {
	return domain.CartLine{
		OwnerID:   ownerID,
		ProductID: productID,
		Name:      "Lion's Mane 200g",
		Price:     price,
		Image:     "https://cdn.example/lions-mane.jpg",
		Quantity:  qty,
		AddedAt:   time.Now(),
	}
}

func validContact() domain.Contact {
	return domain.Contact{
		FirstName: "Asha",
		LastName:  "Rai",
		Email:     "asha@example.com",
		Phone:     "9800000000",
	}
}

func validShipping() domain.ShippingAddress {
	return domain.ShippingAddress{
		Address: "12 Forest Lane",
		City:    "Kathmandu",
		State:   "Bagmati",
		Lat:     27.7172,
		Lng:     85.324,
	}
}

func makeIntent(userID, deviceID string, lines ...domain.CartLine) *domain.OrderIntent {
	return &domain.OrderIntent{
		Lines:      lines,
		Contact:    validContact(),
		Shipping:   validShipping(),
		TotalPrice: domain.CartTotal(lines),
		UserID:     userID,
		DeviceID:   deviceID,
		CreatedAt:  time.Now(),
	}
}

const (
	testSurcharge = domain.Cents(599)
	testUserID    = "user-42"
	testDeviceID  = "device-af01"
)
