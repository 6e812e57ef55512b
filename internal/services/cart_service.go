package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/cache"
	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/repository"

	"github.com/go-redis/redis/v8"
)

var ErrProductNotFound = errors.New("product not found")

// CartService runs cart mutations against one CartRepository, chosen at
// session start: MySQL-backed for authenticated users, redis-backed for
// guest devices. Every mutation returns a re-read of the owner's cart.
type CartService struct {
	repo        repository.CartRepository
	catalog     infra.CatalogClientInterface
	bus         cache.InvalidationBus
	redisClient *redis.Client
}

func NewCartService(repo repository.CartRepository, catalog infra.CatalogClientInterface, bus cache.InvalidationBus) *CartService {
	return &CartService{
		repo:    repo,
		catalog: catalog,
		bus:     bus,
	}
}

func (s *CartService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

// Repository exposes the backing store; the login merge needs the
// device-side repository alongside the user-side service.
func (s *CartService) Repository() repository.CartRepository {
	return s.repo
}

func (s *CartService) List(ctx context.Context, ownerID string) ([]domain.CartLine, error) {
	return s.repo.Lines(ctx, ownerID)
}

// Add inserts a line with quantity 1, or bumps the quantity of the
// existing line for the same product. Stock availability is not checked
// here; the catalog lookup only guards against dead product ids.
func (s *CartService) Add(ctx context.Context, ownerID string, productID uint64, snap domain.ProductSnapshot) ([]domain.CartLine, error) {
	prod, err := s.getProductWithCache(ctx, productID)
	if err != nil {
		return nil, err
	}
	if prod == nil {
		return nil, ErrProductNotFound
	}

	lines, err := s.repo.Lines(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	line := domain.CartLine{
		OwnerID:   ownerID,
		ProductID: productID,
		Name:      snap.Name,
		Price:     snap.Price,
		Image:     snap.Image,
		Quantity:  1,
		AddedAt:   time.Now(),
	}
	for i := range lines {
		if lines[i].ProductID == productID {
			line = lines[i]
			line.Quantity++
			break
		}
	}

	if err := s.repo.Upsert(ctx, &line); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.Lines(ctx, ownerID)
}

// SetQuantity overwrites the line's quantity; zero or less removes the
// line. Setting quantity on an absent line is a no-op remove.
func (s *CartService) SetQuantity(ctx context.Context, ownerID string, productID uint64, qty int) ([]domain.CartLine, error) {
	if qty <= 0 {
		return s.Remove(ctx, ownerID, productID)
	}

	lines, err := s.repo.Lines(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		if lines[i].ProductID == productID {
			line := lines[i]
			line.Quantity = qty
			if err := s.repo.Upsert(ctx, &line); err != nil {
				return nil, err
			}
			break
		}
	}
	s.invalidate(ctx)
	return s.repo.Lines(ctx, ownerID)
}

func (s *CartService) Remove(ctx context.Context, ownerID string, productID uint64) ([]domain.CartLine, error) {
	if err := s.repo.Remove(ctx, ownerID, productID); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.Lines(ctx, ownerID)
}

func (s *CartService) Clear(ctx context.Context, ownerID string) error {
	if err := s.repo.Clear(ctx, ownerID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// MergeOnLogin folds a device cart into this service's (user) cart:
// quantities are summed per product, the user's snapshot fields win on
// conflict, and the device cart is cleared afterwards.
func (s *CartService) MergeOnLogin(ctx context.Context, deviceCarts repository.CartRepository, deviceID, userID string) ([]domain.CartLine, error) {
	guestLines, err := deviceCarts.Lines(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if len(guestLines) == 0 {
		return s.repo.Lines(ctx, userID)
	}

	userLines, err := s.repo.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[uint64]domain.CartLine, len(userLines))
	for _, line := range userLines {
		byProduct[line.ProductID] = line
	}

	for _, guest := range guestLines {
		merged, ok := byProduct[guest.ProductID]
		if ok {
			merged.Quantity += guest.Quantity
		} else {
			merged = guest
			merged.ID = 0
			merged.OwnerID = userID
		}
		if err := s.repo.Upsert(ctx, &merged); err != nil {
			return nil, err
		}
	}

	if err := deviceCarts.Clear(ctx, deviceID); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.Lines(ctx, userID)
}

func (s *CartService) invalidate(ctx context.Context) {
	if s.bus != nil {
		s.bus.Invalidate(ctx, "carts")
	}
}

func (s *CartService) getProductWithCache(ctx context.Context, productID uint64) (*infra.ProductInfo, error) {
	cacheKey := fmt.Sprintf("product:%d", productID)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var prod infra.ProductInfo
			if err := json.Unmarshal([]byte(cached), &prod); err == nil {
				return &prod, nil
			}
		}
	}

	prod, err := s.catalog.GetProductById(ctx, productID)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil && prod != nil {
		if data, err := json.Marshal(prod); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, time.Minute)
		}
	}

	return prod, nil
}
