package product

import (
	"catalog/app/resource"
	"catalog/pkg/httperror"
	"context"
)

type GetProductHandler struct {
	service *Service
}

func NewGetProductHandler(service *Service) *GetProductHandler {
	return &GetProductHandler{
		service: service,
	}
}

type GetProductRequest struct {
	ID uint `json:"-" params:"id"`
}

type GetProductResponse struct {
	resource.Item[resource.Product]
}

func (h GetProductHandler) Handle(ctx context.Context, req *GetProductRequest) (*GetProductResponse, error) {
	product, err := h.service.Get(ctx, req.ID)
	if err != nil {
		return nil, httperror.FromError("product.show", err)
	}

	return &GetProductResponse{
		Item: resource.Item[resource.Product]{Data: resource.NewProduct(product, true)},
	}, nil
}
