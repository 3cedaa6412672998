package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Domain constants
const (
	ProductDomain        = "product"
	ProductExchange      = "catalog.product"
	NotificationExchange = "catalog.notification"
)

// Event names
const (
	ProductCreatedEvent       = "product.created"
	ProductUpdatedEvent       = "product.updated"
	ProductDeletedEvent       = "product.deleted"
	LowStockNotificationEvent = "notification.low_stock"
)

// Event versions
const (
	EventVersionV1 = "v1"
)

// ProductCreatedPayload represents the payload for product.created event
type ProductCreatedPayload struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int            `json:"stock"`
	CategoryIDs []uint          `json:"categoryIds"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ProductUpdatedPayload represents the payload for product.updated event
type ProductUpdatedPayload struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int            `json:"stock"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ProductDeletedPayload struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	DeletedAt time.Time `json:"deletedAt"`
}
