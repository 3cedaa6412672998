package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LowStockThreshold is the stock level under which a product is reported as
// running out.
const LowStockThreshold = 10

type Product struct {
	ID          uint            `db:"id" json:"id" gorm:"primaryKey"`
	Name        string          `db:"name" json:"name" gorm:"size:255;not null"`
	Description *string         `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       *int            `db:"stock" json:"stock"`

	Categories []Category `db:"-" json:"categories,omitempty" gorm:"many2many:category_product;"`

	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `db:"deleted_at" json:"deletedAt" gorm:"index"`
}

func (p *Product) TableName() string {
	return "products"
}

// IsLowStock reports whether the product should trigger a low-stock alert.
// A product without a stock figure counts as empty.
func (p *Product) IsLowStock(threshold int) bool {
	if p.Stock == nil {
		return true
	}
	return *p.Stock < threshold
}

func (p *Product) CategoryIDs() []uint {
	ids := make([]uint, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
