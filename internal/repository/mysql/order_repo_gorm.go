package mysql

import (
	"errors"
	"log"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Save(order *domain.Order) error {
	result := r.db.Create(order)
	if result.Error != nil {
		log.Printf("Database save error: %v", result.Error)
		return result.Error
	}

	if order.ID == 0 {
		log.Printf("WARNING: Order saved but ID is still 0. Rows affected: %d", result.RowsAffected)
		return errors.New("failed to assign order ID")
	}
	return nil
}

func (r *orderRepo) FindByID(id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.Preload("Items").First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("FindByID error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByTransactionUUID(uuid string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.Preload("Items").Where("transaction_uuid = ?", uuid).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("FindByTransactionUUID error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByUserID(userID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Preload("Items").Where("user_id = ?", userID).Order("order_date DESC").Find(&out).Error
	if err != nil {
		log.Printf("FindByUserID error: %v", err)
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(id uint64, status domain.OrderStatus) error {
	result := r.db.Model(&domain.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		log.Printf("UpdateStatus error: %v", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepo) SaveCustomerDetail(detail *domain.CustomerDetail) error {
	if err := r.db.Create(detail).Error; err != nil {
		log.Printf("SaveCustomerDetail error: %v", err)
		return err
	}
	return nil
}

func (r *orderRepo) SaveGuestOrder(guest *domain.GuestOrder) error {
	if err := r.db.Create(guest).Error; err != nil {
		log.Printf("SaveGuestOrder error: %v", err)
		return err
	}
	return nil
}

func (r *orderRepo) FindGuestOrder(orderID uint64) (*domain.GuestOrder, error) {
	var g domain.GuestOrder
	if err := r.db.Where("order_id = ?", orderID).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("FindGuestOrder error: %v", err)
		return nil, err
	}
	return &g, nil
}
