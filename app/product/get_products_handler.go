package product

import (
	"catalog/app/resource"
	"catalog/pkg/httperror"
	"context"
)

type GetProductsHandler struct {
	service *Service
}

func NewGetProductsHandler(service *Service) *GetProductsHandler {
	return &GetProductsHandler{
		service: service,
	}
}

type GetProductsRequest struct {
	CategoryID *uint  `json:"-" query:"category_id"`
	SortBy     string `json:"-" query:"sort_by"`
	SortOrder  string `json:"-" query:"sort_order"`
	Page       int    `json:"-" query:"page"`
}

type GetProductsResponse struct {
	resource.Collection[resource.Product]
}

func (h GetProductsHandler) Handle(ctx context.Context, req *GetProductsRequest) (*GetProductsResponse, error) {
	page := max(req.Page, 1)

	products, total, err := h.service.List(ctx, ListInput{
		CategoryID: req.CategoryID,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}, page)
	if err != nil {
		return nil, httperror.FromError("product.index", err)
	}

	return &GetProductsResponse{
		Collection: resource.Collection[resource.Product]{
			Data: resource.NewProducts(products, true),
			Meta: resource.NewMeta(page, PageSize, total),
		},
	}, nil
}
