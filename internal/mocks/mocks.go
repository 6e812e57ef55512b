package mocks

import (
	"context"
	"net/url"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Save(order *domain.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(id uint64) (*domain.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByTransactionUUID(uuid string) (*domain.Order, error) {
	args := m.Called(uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUserID(userID string) ([]domain.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(id uint64, status domain.OrderStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveCustomerDetail(detail *domain.CustomerDetail) error {
	args := m.Called(detail)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveGuestOrder(guest *domain.GuestOrder) error {
	args := m.Called(guest)
	return args.Error(0)
}

func (m *MockOrderRepository) FindGuestOrder(orderID uint64) (*domain.GuestOrder, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuestOrder), args.Error(1)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Lines(ctx context.Context, ownerID string) ([]domain.CartLine, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartLine), args.Error(1)
}

func (m *MockCartRepository) Upsert(ctx context.Context, line *domain.CartLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockCartRepository) Remove(ctx context.Context, ownerID string, productID uint64) error {
	args := m.Called(ctx, ownerID, productID)
	return args.Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, ownerID string) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) GetProductById(ctx context.Context, id uint64) (*infra.ProductInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.ProductInfo), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) SubmitForm(ctx context.Context, form url.Values) (string, error) {
	args := m.Called(ctx, form)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CheckStatus(ctx context.Context, productCode, totalAmount, transactionUUID string) (string, error) {
	args := m.Called(ctx, productCode, totalAmount, transactionUUID)
	return args.String(0), args.Error(1)
}
