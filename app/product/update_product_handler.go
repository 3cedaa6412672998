package product

import (
	"catalog/app/auth"
	"catalog/app/resource"
	"catalog/pkg/httperror"
	"context"
)

type UpdateProductHandler struct {
	service    *Service
	dispatcher EventDispatcher
}

func NewUpdateProductHandler(service *Service, dispatcher EventDispatcher) *UpdateProductHandler {
	return &UpdateProductHandler{
		service:    service,
		dispatcher: dispatcher,
	}
}

type UpdateProductRequest struct {
	ID uint `json:"-" params:"id"`
	CreateProductRequest
}

type UpdateProductResponse struct {
	resource.Item[resource.Product]
}

func (h UpdateProductHandler) Handle(ctx context.Context, req *UpdateProductRequest) (*UpdateProductResponse, error) {
	product, evs, err := h.service.Update(ctx, req.ID, req.input(), auth.Recipients(ctx)...)
	if err != nil {
		return nil, httperror.FromError("product.update", err)
	}

	h.dispatcher.Dispatch(ctx, evs...)

	return &UpdateProductResponse{
		Item: resource.Item[resource.Product]{Data: resource.NewProduct(product, true)},
	}, nil
}
