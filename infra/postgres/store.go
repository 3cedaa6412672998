package postgres

import (
	"catalog/app/category"
	"catalog/app/product"
	"context"
	"time"

	"gorm.io/gorm"
)

// Store hands out repositories of type R bound either to the pool or to a
// transaction, under the store timeout and retry policy.
type Store[R any] struct {
	db      *gorm.DB
	timeout time.Duration
	bind    func(db *gorm.DB) R
}

func NewProductStore(db *gorm.DB, timeout time.Duration) *Store[product.Repository] {
	return &Store[product.Repository]{
		db:      db,
		timeout: timeout,
		bind: func(db *gorm.DB) product.Repository {
			return NewCatalogRepository(db)
		},
	}
}

func NewCategoryStore(db *gorm.DB, timeout time.Duration) *Store[category.Repository] {
	return &Store[category.Repository]{
		db:      db,
		timeout: timeout,
		bind: func(db *gorm.DB) category.Repository {
			return NewCatalogRepository(db)
		},
	}
}

func (s *Store[R]) Read(ctx context.Context, fn func(ctx context.Context, repo R) error) error {
	return withRetry(ctx, s.timeout, func(ctx context.Context) error {
		return fn(ctx, s.bind(s.db.WithContext(ctx)))
	})
}

// Transaction runs fn in a single transaction, rolled back when fn fails.
func (s *Store[R]) Transaction(ctx context.Context, fn func(ctx context.Context, repo R) error) error {
	return withRetry(ctx, s.timeout, func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(ctx, s.bind(tx))
		})
	})
}
