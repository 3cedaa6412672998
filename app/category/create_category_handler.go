package category

import (
	"catalog/app/resource"
	"catalog/pkg/httperror"
	"context"
	"net/http"
)

type CreateCategoryHandler struct {
	service *Service
}

func NewCreateCategoryHandler(service *Service) *CreateCategoryHandler {
	return &CreateCategoryHandler{
		service: service,
	}
}

type CreateCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type CreateCategoryResponse struct {
	resource.Item[resource.Category]
}

func (CreateCategoryResponse) StatusCode() int {
	return http.StatusCreated
}

func (h CreateCategoryHandler) Handle(ctx context.Context, req *CreateCategoryRequest) (*CreateCategoryResponse, error) {
	category, err := h.service.Create(ctx, CreateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, httperror.FromError("category.create", err)
	}

	return &CreateCategoryResponse{
		Item: resource.Item[resource.Category]{Data: resource.NewCategory(category)},
	}, nil
}
