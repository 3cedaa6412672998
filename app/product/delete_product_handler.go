package product

import (
	"catalog/pkg/httperror"
	"context"
	"net/http"
)

type DeleteProductHandler struct {
	service    *Service
	dispatcher EventDispatcher
}

func NewDeleteProductHandler(service *Service, dispatcher EventDispatcher) *DeleteProductHandler {
	return &DeleteProductHandler{
		service:    service,
		dispatcher: dispatcher,
	}
}

type DeleteProductRequest struct {
	ID uint `json:"-" params:"id"`
}

type DeleteProductResponse struct{}

func (DeleteProductResponse) StatusCode() int {
	return http.StatusNoContent
}

func (h DeleteProductHandler) Handle(ctx context.Context, req *DeleteProductRequest) (*DeleteProductResponse, error) {
	evs, err := h.service.Delete(ctx, req.ID)
	if err != nil {
		return nil, httperror.FromError("product.destroy", err)
	}

	h.dispatcher.Dispatch(ctx, evs...)

	return &DeleteProductResponse{}, nil
}
