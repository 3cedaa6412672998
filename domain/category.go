package domain

import "time"

type Category struct {
	ID          uint      `json:"id" db:"id" gorm:"primaryKey"`
	Name        string    `json:"name" db:"name" gorm:"size:255;not null"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func (c *Category) TableName() string {
	return "categories"
}
