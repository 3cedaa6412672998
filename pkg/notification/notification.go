package notification

import (
	"context"
	"fmt"

	"catalog/domain"
)

// Recipient is who a notification is addressed to. Callers pass it in
// explicitly; nothing here looks at request or session state.
type Recipient struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LowStockMessage struct {
	ProductID   uint      `json:"product_id"`
	ProductName string    `json:"product_name"`
	Stock       *int      `json:"stock"`
	Recipient   Recipient `json:"recipient"`
}

func (m LowStockMessage) Subject() string {
	return fmt.Sprintf("Low stock: %s", m.ProductName)
}

func (m LowStockMessage) Body() string {
	stock := "unknown"
	if m.Stock != nil {
		stock = fmt.Sprintf("%d", *m.Stock)
	}
	return fmt.Sprintf("Product %q (#%d) is running low, %s left in stock.", m.ProductName, m.ProductID, stock)
}

// Sender hands a message to whatever actually delivers it.
type Sender interface {
	SendLowStock(ctx context.Context, msg LowStockMessage) error
}

type Dispatcher struct {
	sender    Sender
	threshold int
}

func NewDispatcher(sender Sender, threshold int) *Dispatcher {
	if threshold <= 0 {
		threshold = domain.LowStockThreshold
	}

	return &Dispatcher{
		sender:    sender,
		threshold: threshold,
	}
}

// NotifyLowStock sends one message per recipient when the product's stock is
// under the threshold and reports how many were handed off.
func (d *Dispatcher) NotifyLowStock(ctx context.Context, product domain.Product, recipients ...Recipient) (int, error) {
	if !product.IsLowStock(d.threshold) {
		return 0, nil
	}

	sent := 0
	for _, recipient := range recipients {
		msg := LowStockMessage{
			ProductID:   product.ID,
			ProductName: product.Name,
			Stock:       product.Stock,
			Recipient:   recipient,
		}
		if err := d.sender.SendLowStock(ctx, msg); err != nil {
			return sent, fmt.Errorf("failed to send low stock notification for product %d: %w", product.ID, err)
		}
		sent++
	}

	return sent, nil
}
