package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productPayload struct {
	Name       string           `json:"name" validate:"required,max=255"`
	Price      *decimal.Decimal `json:"price" validate:"required,min=0.01"`
	Stock      *int             `json:"stock" validate:"omitempty,min=1"`
	Categories []uint           `json:"categories" validate:"required,min=1"`
}

var productMessages = Messages{
	"name.required":       "The product name is required.",
	"price.min":           "The product price must be at least 0.01.",
	"categories.required": "At least one category is required.",
	"categories.min":      "At least one category is required.",
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(i int) *int {
	return &i
}

func TestStruct(t *testing.T) {
	testCases := []struct {
		name     string
		payload  productPayload
		field    string
		message  string
		expectOK bool
	}{
		{
			name:     "valid payload",
			payload:  productPayload{Name: "Phone", Price: price("199.99"), Stock: intPtr(3), Categories: []uint{1}},
			expectOK: true,
		},
		{
			name:    "stops at the first failing field",
			payload: productPayload{Name: "", Price: price("0"), Stock: intPtr(0)},
			field:   "name",
			message: "The product name is required.",
		},
		{
			name:    "missing price",
			payload: productPayload{Name: "Phone", Categories: []uint{1}},
			field:   "price",
			message: "The price field is required.",
		},
		{
			name:    "zero price hits min, not required",
			payload: productPayload{Name: "Phone", Price: price("0"), Categories: []uint{1}},
			field:   "price",
			message: "The product price must be at least 0.01.",
		},
		{
			name:    "stock below one",
			payload: productPayload{Name: "Phone", Price: price("1"), Stock: intPtr(0), Categories: []uint{1}},
			field:   "stock",
			message: "The stock field must be at least 1.",
		},
		{
			name:    "empty category list",
			payload: productPayload{Name: "Phone", Price: price("1"), Categories: []uint{}},
			field:   "categories",
			message: "At least one category is required.",
		},
		{
			name:    "name too long",
			payload: productPayload{Name: strings.Repeat("a", 256), Price: price("1"), Categories: []uint{1}},
			field:   "name",
			message: "The name field must not be greater than 255 characters.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.payload, productMessages)
			if tc.expectOK {
				assert.NoError(t, err)
				return
			}

			var ve *Error
			require.True(t, errors.As(err, &ve))
			assert.Len(t, ve.Fields, 1)
			assert.Equal(t, []string{tc.message}, ve.Fields[tc.field])
		})
	}
}

func TestNewError(t *testing.T) {
	err := NewError("email", "The provided credentials are incorrect.")

	assert.Equal(t, map[string][]string{"email": {"The provided credentials are incorrect."}}, err.Fields)
	assert.Contains(t, err.Error(), "email: The provided credentials are incorrect.")
}

func TestTrimHelpers(t *testing.T) {
	assert.Equal(t, "Phone", Trim("  Phone\t"))
	assert.Empty(t, Trim("   "))

	blank := "   "
	assert.Nil(t, TrimToNil(&blank))
	assert.Nil(t, TrimToNil(nil))
	padded := " text "
	require.NotNil(t, TrimToNil(&padded))
	assert.Equal(t, "text", *TrimToNil(&padded))

	require.NotNil(t, TrimPtr(&blank))
	assert.Empty(t, *TrimPtr(&blank))
	assert.Nil(t, TrimPtr(nil))
}
