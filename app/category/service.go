package category

import (
	"catalog/domain"
	"catalog/pkg/validation"
	"context"
)

const PageSize = 10

type CreateInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
}

// UpdateInput only touches the fields that were supplied.
type UpdateInput struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description"`
}

var messages = validation.Messages{
	"name.min": "The name field is required.",
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, page int) ([]domain.Category, int64, error) {
	var (
		categories []domain.Category
		total      int64
	)

	err := s.store.Read(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		categories, err = repo.GetCategories(ctx, PageSize, (max(page, 1)-1)*PageSize)
		if err != nil {
			return err
		}

		total, err = repo.CountCategories(ctx)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return categories, total, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Category, error) {
	in.Name = validation.Trim(in.Name)
	in.Description = validation.TrimToNil(in.Description)

	if err := validation.Struct(in, messages); err != nil {
		return domain.Category{}, err
	}

	category := domain.Category{
		Name:        in.Name,
		Description: in.Description,
	}

	err := s.store.Transaction(ctx, func(ctx context.Context, repo Repository) error {
		category.ID = 0
		return repo.CreateCategory(ctx, &category)
	})
	if err != nil {
		return domain.Category{}, err
	}

	return category, nil
}

func (s *Service) Get(ctx context.Context, id uint) (domain.Category, error) {
	var category domain.Category

	err := s.store.Read(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		category, err = repo.GetCategory(ctx, id)
		return err
	})

	return category, err
}

func (s *Service) Update(ctx context.Context, id uint, in UpdateInput) (domain.Category, error) {
	in.Name = validation.TrimPtr(in.Name)
	in.Description = validation.TrimToNil(in.Description)

	var category domain.Category

	err := s.store.Transaction(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		category, err = repo.GetCategory(ctx, id)
		if err != nil {
			return err
		}

		if err := validation.Struct(in, messages); err != nil {
			return err
		}

		if in.Name != nil {
			category.Name = *in.Name
		}
		if in.Description != nil {
			category.Description = in.Description
		}

		return repo.UpdateCategory(ctx, &category)
	})
	if err != nil {
		return domain.Category{}, err
	}

	return category, nil
}

// Delete removes the category for good, together with its product links.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(ctx context.Context, repo Repository) error {
		return repo.DeleteCategory(ctx, id)
	})
}
