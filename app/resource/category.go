package resource

import (
	"catalog/domain"
	"time"
)

// Category is the public shape of a category. The description is stored but
// deliberately not exposed here.
type Category struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCategory(c domain.Category) Category {
	return Category{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func NewCategories(categories []domain.Category) []Category {
	res := make([]Category, len(categories))
	for i, c := range categories {
		res[i] = NewCategory(c)
	}
	return res
}
