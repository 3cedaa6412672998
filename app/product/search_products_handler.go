package product

import (
	"catalog/app/resource"
	"catalog/pkg/httperror"
	"context"
	"errors"
)

type SearchProductsHandler struct {
	service *Service
}

func NewSearchProductsHandler(service *Service) *SearchProductsHandler {
	return &SearchProductsHandler{
		service: service,
	}
}

type SearchProductsRequest struct {
	Query string `json:"-" query:"query"`
	Page  int    `json:"-" query:"page"`
}

type SearchProductsResponse struct {
	resource.Collection[resource.Product]
}

func (h SearchProductsHandler) Handle(ctx context.Context, req *SearchProductsRequest) (*SearchProductsResponse, error) {
	page := max(req.Page, 1)

	products, total, err := h.service.Search(ctx, SearchInput{Query: req.Query}, page)
	if errors.Is(err, ErrNoMatches) {
		return nil, httperror.NotFound(
			"product.search.no_matches",
			"No products found matching your search criteria.",
			nil,
		)
	}
	if err != nil {
		return nil, httperror.FromError("product.search", err)
	}

	return &SearchProductsResponse{
		Collection: resource.Collection[resource.Product]{
			Data: resource.NewProducts(products, false),
			Meta: resource.NewMeta(page, PageSize, total),
		},
	}, nil
}
