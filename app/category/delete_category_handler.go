package category

import (
	"catalog/pkg/httperror"
	"context"
	"net/http"
)

type DeleteCategoryHandler struct {
	service *Service
}

func NewDeleteCategoryHandler(service *Service) *DeleteCategoryHandler {
	return &DeleteCategoryHandler{
		service: service,
	}
}

type DeleteCategoryRequest struct {
	ID uint `json:"-" params:"id"`
}

type DeleteCategoryResponse struct{}

func (DeleteCategoryResponse) StatusCode() int {
	return http.StatusNoContent
}

func (h DeleteCategoryHandler) Handle(ctx context.Context, req *DeleteCategoryRequest) (*DeleteCategoryResponse, error) {
	if err := h.service.Delete(ctx, req.ID); err != nil {
		return nil, httperror.FromError("category.destroy", err)
	}

	return &DeleteCategoryResponse{}, nil
}
