package product

import (
	"catalog/app/auth"
	"catalog/app/resource"
	"catalog/pkg/events"
	"catalog/pkg/httperror"
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
)

// EventDispatcher receives the events of a committed change.
type EventDispatcher interface {
	Dispatch(ctx context.Context, evs ...*events.Event)
}

type CreateProductHandler struct {
	service    *Service
	dispatcher EventDispatcher
}

func NewCreateProductHandler(service *Service, dispatcher EventDispatcher) *CreateProductHandler {
	return &CreateProductHandler{
		service:    service,
		dispatcher: dispatcher,
	}
}

type CreateProductRequest struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Categories  []uint           `json:"categories"`

	stockSet       bool `query:"-" params:"-" reqHeader:"-"`
	descriptionSet bool `query:"-" params:"-" reqHeader:"-"`
}

// UnmarshalJSON also records which nullable keys were present, so an
// explicit null can clear a stored value on update.
func (r *CreateProductRequest) UnmarshalJSON(data []byte) error {
	type fields CreateProductRequest
	if err := json.Unmarshal(data, (*fields)(r)); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, r.stockSet = keys["stock"]
	_, r.descriptionSet = keys["description"]

	return nil
}

func (r *CreateProductRequest) input() Input {
	return Input{
		Name:           r.Name,
		Price:          r.Price,
		Stock:          r.Stock,
		Description:    r.Description,
		Categories:     r.Categories,
		StockSet:       r.stockSet,
		DescriptionSet: r.descriptionSet,
	}
}

type CreateProductResponse struct {
	resource.Item[resource.Product]
}

func (CreateProductResponse) StatusCode() int {
	return http.StatusCreated
}

func (h CreateProductHandler) Handle(ctx context.Context, req *CreateProductRequest) (*CreateProductResponse, error) {
	product, evs, err := h.service.Create(ctx, req.input(), auth.Recipients(ctx)...)
	if err != nil {
		return nil, httperror.FromError("product.create", err)
	}

	h.dispatcher.Dispatch(ctx, evs...)

	return &CreateProductResponse{
		Item: resource.Item[resource.Product]{Data: resource.NewProduct(product, true)},
	}, nil
}
