package category

import (
	"catalog/app/resource"
	"catalog/pkg/httperror"
	"context"
)

type UpdateCategoryHandler struct {
	service *Service
}

func NewUpdateCategoryHandler(service *Service) *UpdateCategoryHandler {
	return &UpdateCategoryHandler{
		service: service,
	}
}

type UpdateCategoryRequest struct {
	ID          uint    `json:"-" params:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type UpdateCategoryResponse struct {
	resource.Item[resource.Category]
}

func (h UpdateCategoryHandler) Handle(ctx context.Context, req *UpdateCategoryRequest) (*UpdateCategoryResponse, error) {
	category, err := h.service.Update(ctx, req.ID, UpdateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, httperror.FromError("category.update", err)
	}

	return &UpdateCategoryResponse{
		Item: resource.Item[resource.Category]{Data: resource.NewCategory(category)},
	}, nil
}
