package resource

import "catalog/domain"

type Product struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Price       float64    `json:"price"`
	Stock       *int       `json:"stock"`
	Categories  []Category `json:"categories,omitempty"`
}

// NewProduct maps a product to its public shape. Categories are only rendered
// when includeCategories is set; they are never fetched from here.
func NewProduct(p domain.Product, includeCategories bool) Product {
	res := Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Stock:       p.Stock,
	}

	if includeCategories {
		res.Categories = NewCategories(p.Categories)
	}

	return res
}

func NewProducts(products []domain.Product, includeCategories bool) []Product {
	res := make([]Product, len(products))
	for i, p := range products {
		res[i] = NewProduct(p, includeCategories)
	}
	return res
}
