package category

import (
	"catalog/domain"
	"context"
)

type Repository interface {
	GetCategories(ctx context.Context, limit, offset int) ([]domain.Category, error)
	CountCategories(ctx context.Context) (int64, error)
	GetCategory(ctx context.Context, id uint) (domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id uint) error
}

// Store runs repository work under the store's timeout and retry policy.
type Store interface {
	Read(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
	Transaction(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
