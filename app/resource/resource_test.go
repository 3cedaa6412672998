package resource

import (
	"encoding/json"
	"testing"
	"time"

	"catalog/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductCategoriesAreOptIn(t *testing.T) {
	description := "Smartphone"
	stock := 3
	product := domain.Product{
		ID:          1,
		Name:        "Phone",
		Description: &description,
		Price:       decimal.RequireFromString("199.99"),
		Stock:       &stock,
		Categories:  []domain.Category{{ID: 5, Name: "Electronics"}},
	}

	without, err := json.Marshal(NewProduct(product, false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"Phone","description":"Smartphone","price":199.99,"stock":3}`, string(without))

	with := NewProduct(product, true)
	require.Len(t, with.Categories, 1)
	assert.Equal(t, uint(5), with.Categories[0].ID)
	assert.Equal(t, "Electronics", with.Categories[0].Name)
}

func TestNewCategoryHidesDescription(t *testing.T) {
	description := "All electronic items"
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	raw, err := json.Marshal(NewCategory(domain.Category{
		ID:          3,
		Name:        "Electronics",
		Description: &description,
		CreatedAt:   created,
		UpdatedAt:   created,
	}))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.NotContains(t, decoded, "description")
	assert.Equal(t, "Electronics", decoded["name"])
	assert.Equal(t, "2024-01-01T00:00:00Z", decoded["created_at"])
}

func TestNewMeta(t *testing.T) {
	testCases := []struct {
		name     string
		page     int
		total    int64
		lastPage int
	}{
		{"empty", 1, 0, 1},
		{"exact page", 1, 10, 1},
		{"partial last page", 2, 21, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			meta := NewMeta(tc.page, 10, tc.total)
			assert.Equal(t, tc.page, meta.CurrentPage)
			assert.Equal(t, 10, meta.PerPage)
			assert.Equal(t, tc.total, meta.Total)
			assert.Equal(t, tc.lastPage, meta.LastPage)
		})
	}
}
