package category

import (
	"catalog/app/resource"
	"catalog/pkg/httperror"
	"context"
)

type GetCategoriesHandler struct {
	service *Service
}

func NewGetCategoriesHandler(service *Service) *GetCategoriesHandler {
	return &GetCategoriesHandler{
		service: service,
	}
}

type GetCategoriesRequest struct {
	Page int `json:"-" query:"page"`
}

type GetCategoriesResponse struct {
	resource.Collection[resource.Category]
}

func (h GetCategoriesHandler) Handle(ctx context.Context, req *GetCategoriesRequest) (*GetCategoriesResponse, error) {
	page := max(req.Page, 1)

	categories, total, err := h.service.List(ctx, page)
	if err != nil {
		return nil, httperror.FromError("category.index", err)
	}

	return &GetCategoriesResponse{
		Collection: resource.Collection[resource.Category]{
			Data: resource.NewCategories(categories),
			Meta: resource.NewMeta(page, PageSize, total),
		},
	}, nil
}
