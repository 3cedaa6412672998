package product

import (
	"catalog/domain"
	"context"
)

// ListFilter narrows and orders a product listing. Empty fields mean no
// filter and insertion order.
type ListFilter struct {
	CategoryID *uint
	SortBy     string
	SortOrder  string
}

type Repository interface {
	GetProducts(ctx context.Context, filter ListFilter, limit, offset int) ([]domain.Product, int64, error)
	SearchProducts(ctx context.Context, query string, limit, offset int) ([]domain.Product, int64, error)
	GetProduct(ctx context.Context, id uint, withCategories bool) (domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id uint) error

	GetProductCategoryIDs(ctx context.Context, productID uint) ([]uint, error)
	AttachCategories(ctx context.Context, productID uint, categoryIDs []uint) error
	DetachCategories(ctx context.Context, productID uint, categoryIDs []uint) error
	ExistingCategoryIDs(ctx context.Context, categoryIDs []uint) ([]uint, error)
}

// Store runs repository work under the store's timeout and retry policy.
type Store interface {
	Read(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
	Transaction(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
