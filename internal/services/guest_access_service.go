package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"golang.org/x/sync/errgroup"
)

// GuestAccessService lets anonymous purchasers re-fetch live order
// status using the access tokens handed out at finalization. Possession
// of a matching token is the only access control, and entries with a
// wrong or unknown token are silently skipped rather than failing the
// whole refresh.
type GuestAccessService struct {
	repo repository.OrderRepository
}

func NewGuestAccessService(repo repository.OrderRepository) *GuestAccessService {
	return &GuestAccessService{repo: repo}
}

type GuestOrderRef struct {
	OrderID     uint64 `json:"orderId"`
	AccessToken string `json:"accessToken"`
}

type GuestOrderView struct {
	OrderID      uint64             `json:"orderId"`
	OrderNumber  string             `json:"orderNumber"`
	Status       domain.OrderStatus `json:"status"`
	TotalAmount  string             `json:"totalAmount"`
	OrderDate    time.Time          `json:"orderDate"`
	CustomerName string             `json:"customerName"`
}

// GuestOrderBuckets splits orders for display: anything not yet
// delivered counts as pending, including cancelled orders.
type GuestOrderBuckets struct {
	Pending   []GuestOrderView `json:"pending"`
	Delivered []GuestOrderView `json:"delivered"`
}

const refreshFanout = 4

// Refresh fetches the current status of every known order and buckets
// the results. Lookups run concurrently; a failed data-store read fails
// the whole refresh so the caller never renders half-stale data.
func (s *GuestAccessService) Refresh(ctx context.Context, refs []GuestOrderRef) (*GuestOrderBuckets, error) {
	var (
		mu    sync.Mutex
		views []GuestOrderView
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshFanout)
	for _, ref := range refs {
		ref := ref
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			guest, err := s.repo.FindGuestOrder(ref.OrderID)
			if err != nil {
				return err
			}
			if guest == nil || guest.AccessToken != ref.AccessToken {
				return nil
			}

			order, err := s.repo.FindByID(ref.OrderID)
			if err != nil {
				return err
			}
			if order == nil {
				return nil
			}

			mu.Lock()
			views = append(views, GuestOrderView{
				OrderID:      order.ID,
				OrderNumber:  order.OrderNumber,
				Status:       order.Status,
				TotalAmount:  order.TotalAmount.String(),
				OrderDate:    order.OrderDate,
				CustomerName: guest.CustomerName,
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(views, func(i, j int) bool { return views[i].OrderID < views[j].OrderID })

	buckets := &GuestOrderBuckets{}
	for _, v := range views {
		if v.Status == domain.StatusDelivered {
			buckets.Delivered = append(buckets.Delivered, v)
		} else {
			buckets.Pending = append(buckets.Pending, v)
		}
	}
	return buckets, nil
}
