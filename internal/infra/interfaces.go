package infra

import "context"

type CatalogClientInterface interface {
	GetProductById(ctx context.Context, id uint64) (*ProductInfo, error)
}

var _ CatalogClientInterface = (*CatalogClient)(nil)
