package domain

// CategoryProduct is a row of the product/category join table. It carries
// nothing but the two foreign keys.
type CategoryProduct struct {
	ProductID  uint `json:"product_id" db:"product_id" gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint `json:"category_id" db:"category_id" gorm:"primaryKey;autoIncrement:false"`
}

func (c *CategoryProduct) TableName() string {
	return "category_product"
}
