package mysql

import (
	"context"
	"errors"
	"log"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cart lines for authenticated users. One row per (user, product) pair,
// enforced by the composite unique index on the model.
type cartRepo struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) Lines(ctx context.Context, ownerID string) ([]domain.CartLine, error) {
	var out []domain.CartLine
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("added_at ASC").
		Find(&out).Error
	if err != nil {
		log.Printf("cart Lines error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *cartRepo) Upsert(ctx context.Context, line *domain.CartLine) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "price", "image", "quantity"}),
	}).Create(line).Error
	if err != nil {
		log.Printf("cart Upsert error: %v", err)
		return err
	}
	return nil
}

func (r *cartRepo) Remove(ctx context.Context, ownerID string, productID uint64) error {
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND product_id = ?", ownerID, productID).
		Delete(&domain.CartLine{}).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("cart Remove error: %v", err)
		return err
	}
	return nil
}

func (r *cartRepo) Clear(ctx context.Context, ownerID string) error {
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&domain.CartLine{}).Error
	if err != nil {
		log.Printf("cart Clear error: %v", err)
		return err
	}
	return nil
}
