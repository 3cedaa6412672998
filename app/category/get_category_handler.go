package category

import (
	"catalog/app/resource"
	"catalog/pkg/httperror"
	"context"
)

type GetCategoryHandler struct {
	service *Service
}

func NewGetCategoryHandler(service *Service) *GetCategoryHandler {
	return &GetCategoryHandler{
		service: service,
	}
}

type GetCategoryRequest struct {
	ID uint `json:"-" params:"id"`
}

type GetCategoryResponse struct {
	resource.Item[resource.Category]
}

func (h GetCategoryHandler) Handle(ctx context.Context, req *GetCategoryRequest) (*GetCategoryResponse, error) {
	category, err := h.service.Get(ctx, req.ID)
	if err != nil {
		return nil, httperror.FromError("category.show", err)
	}

	return &GetCategoryResponse{
		Item: resource.Item[resource.Category]{Data: resource.NewCategory(category)},
	}, nil
}
