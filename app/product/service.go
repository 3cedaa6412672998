package product

import (
	"catalog/domain"
	"catalog/pkg/events"
	"catalog/pkg/notification"
	"catalog/pkg/validation"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const PageSize = 10

// ErrNoMatches is returned by Search when the requested page is empty.
var ErrNoMatches = fmt.Errorf("%w: no products found matching your search criteria", domain.ErrNotFound)

// Input is the payload for both create and update. On update a nil
// description or stock keeps the stored value unless the matching Set flag
// says the caller sent an explicit null.
type Input struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Price       *decimal.Decimal `json:"price" validate:"required,min=0.01"`
	Stock       *int             `json:"stock" validate:"omitnil,min=1"`
	Description *string          `json:"description"`
	Categories  []uint           `json:"categories" validate:"required,min=1"`

	StockSet       bool `json:"-"`
	DescriptionSet bool `json:"-"`
}

func (in Input) normalized() Input {
	in.Name = validation.Trim(in.Name)
	in.Description = validation.TrimToNil(in.Description)
	return in
}

type ListInput struct {
	CategoryID *uint  `query:"category_id"`
	SortBy     string `query:"sort_by" validate:"omitempty,oneof=name price created_at updated_at"`
	SortOrder  string `query:"sort_order" validate:"omitempty,oneof=asc desc"`
}

type SearchInput struct {
	Query string `query:"query" validate:"required"`
}

var messages = validation.Messages{
	"name.required":       "The product name is required.",
	"name.max":            "The product name may not be greater than 255 characters.",
	"price.required":      "The product price is required.",
	"price.min":           "The product price must be at least 0.01.",
	"stock.min":           "The stock must be at least 1.",
	"categories.required": "At least one category is required.",
	"categories.min":      "At least one category is required.",
}

const missingCategoryMessage = "One or more selected categories do not exist."

// Notifier sends low-stock alerts for a product to the given recipients.
type Notifier interface {
	NotifyLowStock(ctx context.Context, product domain.Product, recipients ...notification.Recipient) (int, error)
}

type Service struct {
	store             Store
	notifier          Notifier
	lowStockThreshold int
	serviceName       string
}

// NewService falls back to domain.LowStockThreshold when lowStockThreshold
// is not positive.
func NewService(store Store, notifier Notifier, lowStockThreshold int, serviceName string) *Service {
	if lowStockThreshold <= 0 {
		lowStockThreshold = domain.LowStockThreshold
	}

	return &Service{
		store:             store,
		notifier:          notifier,
		lowStockThreshold: lowStockThreshold,
		serviceName:       serviceName,
	}
}

func (s *Service) List(ctx context.Context, in ListInput, page int) ([]domain.Product, int64, error) {
	if err := validation.Struct(in, nil); err != nil {
		return nil, 0, err
	}

	filter := ListFilter{
		CategoryID: in.CategoryID,
		SortBy:     in.SortBy,
		SortOrder:  in.SortOrder,
	}
	if filter.SortBy != "" && filter.SortOrder == "" {
		filter.SortOrder = "asc"
	}

	var (
		products []domain.Product
		total    int64
	)

	err := s.store.Read(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		products, total, err = repo.GetProducts(ctx, filter, PageSize, offset(page))
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Create stores the product with its categories in one transaction. Low
// stock recipients are notified once the transaction has committed.
func (s *Service) Create(ctx context.Context, in Input, recipients ...notification.Recipient) (domain.Product, []*events.Event, error) {
	in = in.normalized()
	if err := validation.Struct(in, messages); err != nil {
		return domain.Product{}, nil, err
	}

	var product domain.Product

	err := s.store.Transaction(ctx, func(ctx context.Context, repo Repository) error {
		if err := checkCategoriesExist(ctx, repo, in.Categories); err != nil {
			return err
		}

		product = domain.Product{
			Name:        in.Name,
			Description: in.Description,
			Price:       *in.Price,
			Stock:       in.Stock,
		}
		if err := repo.CreateProduct(ctx, &product); err != nil {
			return err
		}

		if err := repo.AttachCategories(ctx, product.ID, uniqueIDs(in.Categories)); err != nil {
			return err
		}

		var err error
		product, err = repo.GetProduct(ctx, product.ID, true)
		return err
	})
	if err != nil {
		return domain.Product{}, nil, err
	}

	event := events.NewEvent(events.ProductCreatedEvent, events.EventVersionV1, events.ProductCreatedPayload{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		CategoryIDs: product.CategoryIDs(),
		CreatedAt:   product.CreatedAt,
	}, events.NewHeaders(s.serviceName))

	s.notifyLowStock(ctx, product, recipients)

	return product, []*events.Event{event}, nil
}

func (s *Service) Get(ctx context.Context, id uint) (domain.Product, error) {
	var product domain.Product

	err := s.store.Read(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		product, err = repo.GetProduct(ctx, id, true)
		return err
	})

	return product, err
}

// Update replaces the product's fields and syncs its category links in one
// transaction. A missing product is reported before any validation error.
func (s *Service) Update(ctx context.Context, id uint, in Input, recipients ...notification.Recipient) (domain.Product, []*events.Event, error) {
	in = in.normalized()
	var product domain.Product

	err := s.store.Transaction(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		product, err = repo.GetProduct(ctx, id, false)
		if err != nil {
			return err
		}

		if err := validation.Struct(in, messages); err != nil {
			return err
		}

		if err := checkCategoriesExist(ctx, repo, in.Categories); err != nil {
			return err
		}

		product.Name = in.Name
		product.Price = *in.Price
		if in.Description != nil || in.DescriptionSet {
			product.Description = in.Description
		}
		if in.Stock != nil || in.StockSet {
			product.Stock = in.Stock
		}

		if err := repo.UpdateProduct(ctx, &product); err != nil {
			return err
		}

		if err := syncCategories(ctx, repo, product.ID, in.Categories); err != nil {
			return err
		}

		product, err = repo.GetProduct(ctx, product.ID, true)
		return err
	})
	if err != nil {
		return domain.Product{}, nil, err
	}

	event := events.NewEvent(events.ProductUpdatedEvent, events.EventVersionV1, events.ProductUpdatedPayload{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		UpdatedAt:   product.UpdatedAt,
	}, events.NewHeaders(s.serviceName))

	s.notifyLowStock(ctx, product, recipients)

	return product, []*events.Event{event}, nil
}

// Delete soft deletes the product. Its category links are kept.
func (s *Service) Delete(ctx context.Context, id uint) ([]*events.Event, error) {
	var product domain.Product

	err := s.store.Transaction(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		product, err = repo.GetProduct(ctx, id, false)
		if err != nil {
			return err
		}

		return repo.DeleteProduct(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	event := events.NewEvent(events.ProductDeletedEvent, events.EventVersionV1, events.ProductDeletedPayload{
		ID:        product.ID,
		Name:      product.Name,
		DeletedAt: time.Now().UTC(),
	}, events.NewHeaders(s.serviceName))

	return []*events.Event{event}, nil
}

// Search matches the query against name or description, case-insensitively.
// An empty page is reported as ErrNoMatches.
func (s *Service) Search(ctx context.Context, in SearchInput, page int) ([]domain.Product, int64, error) {
	in.Query = validation.Trim(in.Query)
	if err := validation.Struct(in, nil); err != nil {
		return nil, 0, err
	}

	var (
		products []domain.Product
		total    int64
	)

	err := s.store.Read(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		products, total, err = repo.SearchProducts(ctx, in.Query, PageSize, offset(page))
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	if len(products) == 0 {
		return nil, 0, ErrNoMatches
	}

	return products, total, nil
}

func (s *Service) notifyLowStock(ctx context.Context, product domain.Product, recipients []notification.Recipient) {
	if s.notifier == nil || len(recipients) == 0 || !product.IsLowStock(s.lowStockThreshold) {
		return
	}

	sent, err := s.notifier.NotifyLowStock(ctx, product, recipients...)
	if err != nil {
		zap.L().Error("Failed to send low stock notification",
			zap.Uint("productId", product.ID),
			zap.Int("sent", sent),
			zap.Error(err),
		)
		return
	}

	if sent > 0 {
		zap.L().Info("Low stock notification sent", zap.Uint("productId", product.ID), zap.Int("recipients", sent))
	}
}

// checkCategoriesExist reports the first requested category id that is not
// stored, keyed by its position in the request.
func checkCategoriesExist(ctx context.Context, repo Repository, categoryIDs []uint) error {
	existing, err := repo.ExistingCategoryIDs(ctx, uniqueIDs(categoryIDs))
	if err != nil {
		return err
	}

	for i, id := range categoryIDs {
		if !slices.Contains(existing, id) {
			return validation.NewError(fmt.Sprintf("categories.%d", i), missingCategoryMessage)
		}
	}

	return nil
}

func offset(page int) int {
	return (max(page, 1) - 1) * PageSize
}
